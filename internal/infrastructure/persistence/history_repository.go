package persistence

import (
	"context"
	"fmt"

	"github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHistoryRepository implements history.Repository using GORM
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append stores a new audit trail entry
func (r *GormHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	return r.db.WithContext(ctx).Create(models.HistoryEntryModelFromDomain(entry)).Error
}

// FindAll returns entries newest first
func (r *GormHistoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]history.Entry, error) {
	return r.find(ctx, r.db.WithContext(ctx).Model(&models.HistoryEntryModel{}), filter)
}

// FindByArticle returns the entries of one article, newest first
func (r *GormHistoryRepository) FindByArticle(ctx context.Context, articleOld string, filter shared.Filter) ([]history.Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.HistoryEntryModel{}).
		Where("article_old = ?", articleOld)
	return r.find(ctx, query, filter)
}

// Count returns the total number of entries
func (r *GormHistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.HistoryEntryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormHistoryRepository) find(_ context.Context, query *gorm.DB, filter shared.Filter) ([]history.Entry, error) {
	var rows []models.HistoryEntryModel
	if err := query.
		Order(orderClause(filter)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]history.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *rows[i].ToDomain())
	}
	return entries, nil
}

// orderClause maps the filter ordering onto the entry columns, defaulting to
// newest first
func orderClause(filter shared.Filter) string {
	column := "recorded_at"
	switch filter.OrderBy {
	case "article_old", "user_name", "box_number", "order_number", "recorded_at":
		column = filter.OrderBy
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// Ensure GormHistoryRepository implements history.Repository
var _ history.Repository = (*GormHistoryRepository)(nil)
