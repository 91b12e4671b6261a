package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventBus(t *testing.T) {
	t.Run("delivers to a typed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		handler := &recordingHandler{types: []string{booking.EventTypeInventoryUpdated}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), booking.NewInventoryUpdatedEvent("redis"))
		require.NoError(t, err)
		assert.Equal(t, 1, handler.seen())
	})

	t.Run("does not deliver other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		handler := &recordingHandler{types: []string{booking.EventTypeInventoryUpdated}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			booking.NewSessionOpenedEvent(uuid.New(), "BOX-7", "", 3))
		require.NoError(t, err)
		assert.Equal(t, 0, handler.seen())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			booking.NewInventoryUpdatedEvent("redis"),
			booking.NewSessionOpenedEvent(uuid.New(), "BOX-7", "", 3),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, handler.seen())
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		failing := &recordingHandler{
			types: []string{booking.EventTypeInventoryUpdated},
			err:   errors.New("boom"),
		}
		healthy := &recordingHandler{types: []string{booking.EventTypeInventoryUpdated}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), booking.NewInventoryUpdatedEvent("redis"))
		require.NoError(t, err)
		assert.Equal(t, 1, healthy.seen())
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		panicking := &recordingHandler{
			types:  []string{booking.EventTypeInventoryUpdated},
			panics: true,
		}
		healthy := &recordingHandler{types: []string{booking.EventTypeInventoryUpdated}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), booking.NewInventoryUpdatedEvent("redis"))
		})
		assert.Equal(t, 1, healthy.seen())
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		handler := &recordingHandler{types: []string{booking.EventTypeInventoryUpdated}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), booking.NewInventoryUpdatedEvent("redis"))
		require.NoError(t, err)
		assert.Equal(t, 0, handler.seen())
	})
}
