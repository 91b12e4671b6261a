package persistence

import (
	"context"
	"errors"

	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRowID pins the tolerance settings to a single row
const settingsRowID = 1

// GormSettingsRepository implements booking.SettingsStore using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the persisted tolerance settings
func (r *GormSettingsRepository) Load(ctx context.Context) (booking.ToleranceSettings, error) {
	var row models.ToleranceSettingsModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ToleranceSettings{}, shared.ErrNotFound
		}
		return booking.ToleranceSettings{}, err
	}
	return booking.ToleranceSettings{Percentage: row.Percentage}, nil
}

// Save upserts the tolerance settings row
func (r *GormSettingsRepository) Save(ctx context.Context, settings booking.ToleranceSettings) error {
	row := models.ToleranceSettingsModel{
		ID:         settingsRowID,
		Percentage: settings.Percentage,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percentage", "updated_at"}),
		}).
		Create(&row).Error
}

// Ensure GormSettingsRepository implements booking.SettingsStore
var _ booking.SettingsStore = (*GormSettingsRepository)(nil)
