package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ListRequest selects a page of the audit trail, optionally narrowed to one
// article
type ListRequest struct {
	Article  string `form:"article"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=recorded_at article_old user_name box_number order_number"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EntryResponse is the read model of one audit trail entry
type EntryResponse struct {
	ID          uuid.UUID           `json:"id"`
	RecordedAt  time.Time           `json:"recorded_at"`
	UserName    string              `json:"user_name"`
	ArticleOld  string              `json:"article_old"`
	ArticleNew  string              `json:"article_new"`
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	SourceSlot  string              `json:"source_slot,omitempty"`
	TargetSlot  string              `json:"target_slot,omitempty"`
	BoxNumber   string              `json:"box_number,omitempty"`
	OrderNumber string              `json:"order_number,omitempty"`
	Correction  *booking.Correction `json:"correction,omitempty"`
}

// ListResponse is a page of the audit trail
type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int64           `json:"total"`
}

// Service provides read access to the booking audit trail
type Service struct {
	repo   history.Repository
	logger *zap.Logger
}

// NewService creates a new history Service
func NewService(repo history.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns a page of entries, newest first unless the request orders
// otherwise
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	var (
		entries []history.Entry
		err     error
	)
	if req.Article != "" {
		entries, err = s.repo.FindByArticle(ctx, req.Article, filter)
	} else {
		entries, err = s.repo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ListResponse{
		Entries: make([]EntryResponse, 0, len(entries)),
		Total:   total,
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(&entries[i]))
	}
	return resp, nil
}

func toEntryResponse(entry *history.Entry) EntryResponse {
	return EntryResponse{
		ID:          entry.ID,
		RecordedAt:  entry.RecordedAt,
		UserName:    entry.UserName,
		ArticleOld:  entry.ArticleOld,
		ArticleNew:  entry.ArticleNew,
		Description: entry.Description,
		Quantity:    entry.Quantity,
		SourceSlot:  entry.SourceSlot,
		TargetSlot:  entry.TargetSlot,
		BoxNumber:   entry.BoxNumber,
		OrderNumber: entry.OrderNumber,
		Correction:  entry.Correction,
	}
}
