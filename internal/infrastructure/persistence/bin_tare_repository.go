package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBinTareRepository implements booking.TareRegistry using GORM
type GormBinTareRepository struct {
	db *gorm.DB
}

// NewGormBinTareRepository creates a new GormBinTareRepository
func NewGormBinTareRepository(db *gorm.DB) *GormBinTareRepository {
	return &GormBinTareRepository{db: db}
}

// RegisteredTare returns the tare for a bin; ok is false when the bin has no
// registered value
func (r *GormBinTareRepository) RegisteredTare(ctx context.Context, binCode string) (decimal.Decimal, bool, error) {
	var row models.BinTareModel
	if err := r.db.WithContext(ctx).First(&row, "bin_code = ?", binCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return row.TareWeight, true, nil
}

// Register upserts a bin's tare weight
func (r *GormBinTareRepository) Register(ctx context.Context, binCode string, tareWeight decimal.Decimal) error {
	if binCode == "" {
		return shared.NewDomainError("MISSING_BIN", "Bin code cannot be empty")
	}
	if !tareWeight.IsPositive() {
		return shared.NewDomainError("INVALID_TARE", "Tare weight must be greater than zero")
	}

	row := models.BinTareModel{
		BinCode:    binCode,
		TareWeight: tareWeight,
	}
	row.ID = uuid.New()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bin_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"tare_weight", "updated_at"}),
		}).
		Create(&row).Error
}

// Ensure GormBinTareRepository implements booking.TareRegistry
var _ booking.TareRegistry = (*GormBinTareRepository)(nil)
