package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockItemRepository implements booking.ItemSource using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FetchByBox fetches the items stored in a box
func (r *GormStockItemRepository) FetchByBox(ctx context.Context, boxNumber string) ([]booking.Item, error) {
	return r.fetch(ctx, "box_number = ?", boxNumber)
}

// FetchByOrder fetches the items associated with a picking order
func (r *GormStockItemRepository) FetchByOrder(ctx context.Context, orderNumber string) ([]booking.Item, error) {
	return r.fetch(ctx, "order_number = ?", orderNumber)
}

func (r *GormStockItemRepository) fetch(ctx context.Context, query string, arg string) ([]booking.Item, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("article_old ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]booking.Item, 0, len(rows))
	for i := range rows {
		items = append(items, *rows[i].ToDomain())
	}
	return items, nil
}

// Ensure GormStockItemRepository implements booking.ItemSource
var _ booking.ItemSource = (*GormStockItemRepository)(nil)
