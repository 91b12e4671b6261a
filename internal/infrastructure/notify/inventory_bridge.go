package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// inventoryMessage is the wire format on the inventory-updated channel
type inventoryMessage struct {
	Origin    string `json:"origin"`
	Source    string `json:"source,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// InventoryBridge connects the process to the shared inventory-updated
// channel on Redis. Outbound it announces committed bookings; inbound it
// turns foreign announcements into InventoryUpdated domain events so open
// sessions refresh their snapshots. Messages this instance published itself
// are skipped on receive.
type InventoryBridge struct {
	client   *redis.Client
	channel  string
	origin   string
	events   shared.EventPublisher
	logger   *zap.Logger
	cancelFn context.CancelFunc
	mu       sync.Mutex
	running  bool
}

// NewInventoryBridge creates a bridge on an existing Redis client. The
// caller retains ownership of the client.
func NewInventoryBridge(client *redis.Client, channel string, events shared.EventPublisher, logger *zap.Logger) *InventoryBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryBridge{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		events:  events,
		logger:  logger,
	}
}

// Announce publishes an inventory-updated message for the other instances
func (b *InventoryBridge) Announce(ctx context.Context, source string) error {
	data, err := json.Marshal(inventoryMessage{
		Origin:    b.origin,
		Source:    source,
		Timestamp: time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshaling inventory message: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing inventory message: %w", err)
	}
	b.logger.Debug("inventory update announced", zap.String("channel", b.channel))
	return nil
}

// Listen blocks on the channel subscription until the context is cancelled
// or Close is called. It should run in its own goroutine.
func (b *InventoryBridge) Listen(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("inventory listener already running")
	}
	b.running = true
	subCtx, cancel := context.WithCancel(ctx)
	b.cancelFn = cancel
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", b.channel, err)
	}
	b.logger.Info("listening for inventory updates", zap.String("channel", b.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			b.logger.Info("inventory listener stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("inventory channel closed")
				return nil
			}
			b.handleMessage(subCtx, msg.Payload)
		}
	}
}

func (b *InventoryBridge) handleMessage(ctx context.Context, payload string) {
	var msg inventoryMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		b.logger.Error("malformed inventory message",
			zap.String("payload", payload),
			zap.Error(err),
		)
		return
	}
	if msg.Origin == b.origin {
		return
	}

	if err := b.events.Publish(ctx, booking.NewInventoryUpdatedEvent(msg.Source)); err != nil {
		b.logger.Error("publishing inventory-updated event failed", zap.Error(err))
	}
}

// Close stops the listener
func (b *InventoryBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelFn != nil {
		b.cancelFn()
	}
	return nil
}
