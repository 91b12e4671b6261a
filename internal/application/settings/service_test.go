package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/booking"
)

// MockSettingsStore implements booking.SettingsStore for testing
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Load(ctx context.Context) (booking.ToleranceSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(booking.ToleranceSettings), args.Error(1)
}

func (m *MockSettingsStore) Save(ctx context.Context, settings booking.ToleranceSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func TestGetTolerance(t *testing.T) {
	t.Run("returns the stored percentage", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("Load", mock.Anything).
			Return(booking.ToleranceSettings{Percentage: 15}, nil).Once()
		svc := NewService(store, 10, nil)

		resp, err := svc.GetTolerance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 15, resp.Percentage)
		assert.Equal(t, 0, resp.Min)
		assert.Equal(t, 50, resp.Max)
	})

	t.Run("falls back to the default when the store fails", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("Load", mock.Anything).
			Return(booking.ToleranceSettings{}, errors.New("connection refused")).Once()
		svc := NewService(store, 10, nil)

		resp, err := svc.GetTolerance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Percentage)
	})
}

func TestUpdateTolerance(t *testing.T) {
	t.Run("persists a valid percentage", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("Save", mock.Anything, booking.ToleranceSettings{Percentage: 25}).
			Return(nil).Once()
		svc := NewService(store, 10, nil)

		resp, err := svc.UpdateTolerance(context.Background(), UpdateToleranceRequest{Percentage: 25})
		require.NoError(t, err)
		assert.Equal(t, 25, resp.Percentage)
		store.AssertExpectations(t)
	})

	t.Run("rejects a percentage above the maximum", func(t *testing.T) {
		store := new(MockSettingsStore)
		svc := NewService(store, 10, nil)

		_, err := svc.UpdateTolerance(context.Background(), UpdateToleranceRequest{Percentage: 51})
		require.Error(t, err)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("accepts the boundaries", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
		svc := NewService(store, 10, nil)

		_, err := svc.UpdateTolerance(context.Background(), UpdateToleranceRequest{Percentage: 0})
		require.NoError(t, err)
		_, err = svc.UpdateTolerance(context.Background(), UpdateToleranceRequest{Percentage: 50})
		require.NoError(t, err)
	})

	t.Run("surfaces a store failure", func(t *testing.T) {
		store := new(MockSettingsStore)
		store.On("Save", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()
		svc := NewService(store, 10, nil)

		_, err := svc.UpdateTolerance(context.Background(), UpdateToleranceRequest{Percentage: 20})
		require.Error(t, err)
	})
}
