package settings

import (
	"context"
	"fmt"

	"github.com/wms/backend/internal/domain/booking"
	"go.uber.org/zap"
)

// ToleranceResponse is the read model of the tolerance settings
type ToleranceResponse struct {
	Percentage int `json:"percentage"`
	Min        int `json:"min"`
	Max        int `json:"max"`
}

// UpdateToleranceRequest changes the tolerance percentage
type UpdateToleranceRequest struct {
	Percentage int `json:"percentage" binding:"min=0,max=50"`
}

// Service manages the booking tolerance settings
type Service struct {
	store  booking.SettingsStore
	logger *zap.Logger
	defPct int
}

// NewService creates a new settings Service. defaultPercentage is served when
// the store has no persisted value yet.
func NewService(store booking.SettingsStore, defaultPercentage int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPercentage < booking.MinTolerancePercentage || defaultPercentage > booking.MaxTolerancePercentage {
		defaultPercentage = booking.MinTolerancePercentage
	}
	return &Service{store: store, logger: logger, defPct: defaultPercentage}
}

// GetTolerance returns the active tolerance settings
func (s *Service) GetTolerance(ctx context.Context) (*ToleranceResponse, error) {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("loading tolerance settings failed, serving default",
			zap.Int("default", s.defPct),
			zap.Error(err),
		)
		loaded = booking.ToleranceSettings{Percentage: s.defPct}
	}
	return toResponse(loaded), nil
}

// UpdateTolerance validates and persists a new tolerance percentage
func (s *Service) UpdateTolerance(ctx context.Context, req UpdateToleranceRequest) (*ToleranceResponse, error) {
	settings, err := booking.NewToleranceSettings(req.Percentage)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("saving tolerance settings: %w", err)
	}
	s.logger.Info("tolerance settings updated", zap.Int("percentage", settings.Percentage))
	return toResponse(settings), nil
}

func toResponse(settings booking.ToleranceSettings) *ToleranceResponse {
	return &ToleranceResponse{
		Percentage: settings.Percentage,
		Min:        booking.MinTolerancePercentage,
		Max:        booking.MaxTolerancePercentage,
	}
}
