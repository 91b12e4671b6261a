package scale

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/booking"
	"go.uber.org/zap"
)

// Config holds the simulated scale's measurement ranges and settling delay
type Config struct {
	SettleDelay time.Duration
	GrossMinKg  float64
	GrossMaxKg  float64
	TareMinKg   float64
	TareMaxKg   float64
}

// Simulated implements booking.Scale by sampling a random weight after a
// settling delay, standing in for the serial weighing hardware.
type Simulated struct {
	cfg    Config
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a new simulated scale
func NewSimulated(cfg Config, logger *zap.Logger) *Simulated {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulated{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// MeasureGross performs a gross weighing, including the settling delay
func (s *Simulated) MeasureGross(ctx context.Context) (decimal.Decimal, error) {
	return s.measure(ctx, "gross", s.cfg.GrossMinKg, s.cfg.GrossMaxKg)
}

// MeasureTare measures the tare of an empty container placed on the scale
func (s *Simulated) MeasureTare(ctx context.Context) (decimal.Decimal, error) {
	return s.measure(ctx, "tare", s.cfg.TareMinKg, s.cfg.TareMaxKg)
}

func (s *Simulated) measure(ctx context.Context, kind string, minKg, maxKg float64) (decimal.Decimal, error) {
	if s.cfg.SettleDelay > 0 {
		timer := time.NewTimer(s.cfg.SettleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	sample := minKg + s.rng.Float64()*(maxKg-minKg)
	s.mu.Unlock()

	// Scales report in 10g resolution
	weight := decimal.NewFromFloat(sample).Round(2)
	s.logger.Debug("scale measurement",
		zap.String("kind", kind),
		zap.String("weight_kg", weight.String()),
	)
	return weight, nil
}

// Ensure Simulated implements booking.Scale
var _ booking.Scale = (*Simulated)(nil)
