package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

const (
	defaultInterval    = 10 * time.Second
	defaultBatchSize   = 10
	defaultSendDelay   = time.Second
	defaultMaxAttempts = 5
)

// Channel delivers a rendered announcement for one order to the operations
// channel.
type Channel interface {
	SendOrderMessage(ctx context.Context, orderID uuid.UUID, text string) error
}

// Dispatcher drains the notification queue: every tick it fetches a batch of
// pending records oldest first and delivers them sequentially, throttled
// between sends. Failed deliveries count an attempt and are retried on later
// ticks until the record is dead-lettered.
type Dispatcher struct {
	notifications port.NotificationRepository
	orders        port.OrderRepository
	formatter     *Formatter
	channel       Channel
	logger        *slog.Logger

	interval    time.Duration
	batchSize   int
	sendDelay   time.Duration
	maxAttempts int
}

func NewDispatcher(notifications port.NotificationRepository, orders port.OrderRepository,
	formatter *Formatter, channel Channel, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		orders:        orders,
		formatter:     formatter,
		channel:       channel,
		logger:        logger,
		interval:      defaultInterval,
		batchSize:     defaultBatchSize,
		sendDelay:     defaultSendDelay,
		maxAttempts:   defaultMaxAttempts,
	}
}

// Run polls until ctx is cancelled. Failures are logged, never fatal.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	records, err := d.notifications.FetchPending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending notifications", "error", err)
		return
	}

	for i, record := range records {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.sendDelay):
			}
		}
		d.deliver(ctx, record)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, record domain.Notification) {
	order, err := d.orders.GetOrder(ctx, record.OrderID)
	if err != nil {
		d.logger.Error("load order for notification",
			"notification", record.ID, "order", record.OrderID, "error", err)
		d.markFailed(ctx, record)
		return
	}

	text := d.formatter.Render(ctx, order, lo.FromPtr(order.HandledBy))

	if err := d.channel.SendOrderMessage(ctx, order.ID, text); err != nil {
		d.logger.Error("send notification",
			"notification", record.ID, "order", order.OrderNumber, "error", err)
		d.markFailed(ctx, record)
		return
	}

	if err := d.notifications.MarkSent(ctx, record.ID); err != nil {
		// Delivery succeeded but the flag write failed; the next poll may
		// resend (at-least-once).
		d.logger.Error("mark notification sent", "notification", record.ID, "error", err)
		return
	}

	d.logger.Info("notification sent",
		"notification", record.ID, "order", order.OrderNumber, "kind", string(record.Kind))
}

func (d *Dispatcher) markFailed(ctx context.Context, record domain.Notification) {
	if err := d.notifications.MarkFailed(ctx, record.ID, d.maxAttempts); err != nil {
		d.logger.Error("mark notification failed", "notification", record.ID, "error", err)
	}
}
