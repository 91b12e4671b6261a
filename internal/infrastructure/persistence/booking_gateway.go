package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingGateway implements booking.Gateway. A batch is committed in a
// single transaction: every booking row is inserted and the source stock is
// decremented, with correction deltas applied first. A failed stock guard
// rolls the whole batch back.
type GormBookingGateway struct {
	db *gorm.DB
}

// NewGormBookingGateway creates a new GormBookingGateway
func NewGormBookingGateway(db *gorm.DB) *GormBookingGateway {
	return &GormBookingGateway{db: db}
}

// BookItems persists a booking batch
func (g *GormBookingGateway) BookItems(ctx context.Context, items []booking.BookingItem) ([]booking.BookingItem, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Booking batch cannot be empty")
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := g.bookOne(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (g *GormBookingGateway) bookOne(tx *gorm.DB, item *booking.BookingItem) error {
	if corr := item.Correction; corr != nil {
		delta := corr.Amount
		if corr.Type == booking.CorrectionTypeShortage {
			delta = -delta
		}
		if err := tx.Model(&models.StockItemModel{}).
			Where("id = ?", item.SourceItemID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
			return err
		}
	}

	result := tx.Model(&models.StockItemModel{}).
		Where("id = ? AND quantity >= ?", item.SourceItemID, item.Quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}

	return tx.Create(models.BookingModelFromDomain(item)).Error
}

// Ensure GormBookingGateway implements booking.Gateway
var _ booking.Gateway = (*GormBookingGateway)(nil)
