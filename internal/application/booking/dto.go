package booking

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/booking"
)

// OpenSessionRequest starts a booking session for the items of exactly one
// box or one order
type OpenSessionRequest struct {
	BoxNumber   string `json:"box_number"`
	OrderNumber string `json:"order_number"`
	UserName    string `json:"user_name"`
}

// ItemResponse is the read model of a source item
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ArticleOld  string    `json:"article_old"`
	ArticleNew  string    `json:"article_new"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	SlotCodes   []string  `json:"slot_codes"`
	BoxNumber   string    `json:"box_number,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
}

// WeighingResponse is the read model of the scale sub-machine
type WeighingResponse struct {
	Step        string `json:"step"`
	BinCode     string `json:"bin_code,omitempty"`
	TareMethod  string `json:"tare_method,omitempty"`
	TareWeight  string `json:"tare_weight"`
	GrossWeight string `json:"gross_weight"`
	Candidate   int64  `json:"candidate"`
	Accepted    bool   `json:"accepted"`
	HasBinTare  bool   `json:"has_bin_tare"`
}

// BookedItemResponse is the read model of a committed booking
type BookedItemResponse struct {
	ID          uuid.UUID           `json:"id"`
	ArticleOld  string              `json:"article_old"`
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	TargetPath  string              `json:"target_path"`
	BoxNumber   string              `json:"box_number,omitempty"`
	Correction  *booking.Correction `json:"correction,omitempty"`
}

// BookedGroupResponse is one row of the target-side summary view
type BookedGroupResponse struct {
	ArticleOld  string   `json:"article_old"`
	BoxNumber   string   `json:"box_number,omitempty"`
	Description string   `json:"description"`
	Quantity    int64    `json:"quantity"`
	TargetSlots []string `json:"target_slots"`
}

// CorrectionPromptResponse describes a pending discrepancy prompt the
// operator must resolve before the item can be booked
type CorrectionPromptResponse struct {
	Kind           string   `json:"kind"`
	Quantity       int64    `json:"quantity"`
	SystemQuantity int64    `json:"system_quantity"`
	DiffPct        string   `json:"diff_pct"`
	Actions        []string `json:"actions"`
	Reasons        []string `json:"reasons"`
}

// SessionResponse is the full read model of a booking session
type SessionResponse struct {
	ID             uuid.UUID                 `json:"id"`
	BoxNumber      string                    `json:"box_number,omitempty"`
	OrderNumber    string                    `json:"order_number,omitempty"`
	Cursor         int                       `json:"cursor"`
	TotalItems     int                       `json:"total_items"`
	CurrentItem    *ItemResponse             `json:"current_item,omitempty"`
	Mode           string                    `json:"mode"`
	ManualQuantity int64                     `json:"manual_quantity"`
	TargetSlots    []string                  `json:"target_slots"`
	Weighing       WeighingResponse          `json:"weighing"`
	Booked         []BookedItemResponse      `json:"booked"`
	Groups         []BookedGroupResponse     `json:"groups"`
	Prompt         *CorrectionPromptResponse `json:"prompt,omitempty"`
	Submitting     bool                      `json:"submitting"`
	Closed         bool                      `json:"closed"`
}

// ConfirmResult reports what happened to a confirm action: the item was
// booked (and possibly the batch completed), or a prompt now gates it
type ConfirmResult struct {
	Booked    bool                      `json:"booked"`
	Completed bool                      `json:"completed"`
	Prompt    *CorrectionPromptResponse `json:"prompt,omitempty"`
}

// ResolveCorrectionRequest resolves a pending prompt
type ResolveCorrectionRequest struct {
	Action string `json:"action" binding:"required,oneof=adjust partial"`
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

// Correction prompt actions
const (
	CorrectionActionAdjust  = "adjust"
	CorrectionActionPartial = "partial"
)

func toItemResponse(item *booking.Item) *ItemResponse {
	if item == nil {
		return nil
	}
	return &ItemResponse{
		ID:          item.ID,
		ArticleOld:  item.ArticleOld,
		ArticleNew:  item.ArticleNew,
		Description: item.Description,
		Quantity:    item.Quantity,
		SlotCodes:   item.SlotCodes,
		BoxNumber:   item.BoxNumber,
		OrderNumber: item.OrderNumber,
	}
}

func toWeighingResponse(w *booking.WeighingState) WeighingResponse {
	return WeighingResponse{
		Step:        w.Step.String(),
		BinCode:     w.BinCode,
		TareMethod:  string(w.TareMethod),
		TareWeight:  w.TareWeight.String(),
		GrossWeight: w.GrossWeight.String(),
		Candidate:   w.Candidate,
		Accepted:    w.Accepted,
		HasBinTare:  w.RegisteredTare != nil,
	}
}

func toBookedItemResponses(items []booking.BookingItem) []BookedItemResponse {
	result := make([]BookedItemResponse, 0, len(items))
	for i := range items {
		item := &items[i]
		result = append(result, BookedItemResponse{
			ID:          item.ID,
			ArticleOld:  item.ArticleOld,
			Description: item.Description,
			Quantity:    item.Quantity,
			TargetPath:  item.CompartmentPath(),
			BoxNumber:   item.BoxNumber,
			Correction:  item.Correction,
		})
	}
	return result
}

func toBookedGroupResponses(items []booking.BookingItem) []BookedGroupResponse {
	groups := booking.GroupBookings(items)
	result := make([]BookedGroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, BookedGroupResponse{
			ArticleOld:  g.ArticleOld,
			BoxNumber:   g.BoxNumber,
			Description: g.Description,
			Quantity:    g.Quantity,
			TargetSlots: g.TargetSlots,
		})
	}
	return result
}

func toPromptResponse(r booking.Reconciliation) *CorrectionPromptResponse {
	prompt := &CorrectionPromptResponse{
		Quantity:       r.Quantity,
		SystemQuantity: r.SystemQuantity,
		DiffPct:        r.DiffPct.StringFixed(2),
	}
	switch r.Decision {
	case booking.DecisionPromptExcess:
		prompt.Kind = string(booking.CorrectionTypeExcess)
		prompt.Actions = []string{CorrectionActionAdjust}
		for _, reason := range booking.PositiveReasons() {
			prompt.Reasons = append(prompt.Reasons, reason.String())
		}
	case booking.DecisionPromptShortage:
		prompt.Kind = string(booking.CorrectionTypeShortage)
		prompt.Actions = []string{CorrectionActionAdjust, CorrectionActionPartial}
		for _, reason := range booking.NegativeReasons() {
			prompt.Reasons = append(prompt.Reasons, reason.String())
		}
	}
	return prompt
}
