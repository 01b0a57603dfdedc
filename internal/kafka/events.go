package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-sync/internal/models"

	"go.uber.org/zap"
)

// EventTypePushDelivered marks a push notification the backend delivered.
const EventTypePushDelivered = "PushDelivered"

// ErrPermanent wraps failures that retrying cannot fix.
var ErrPermanent = errors.New("permanent event failure")

// PushMessage is the body of a PushDelivered event.
type PushMessage struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	SaleID string `json:"sale_id,omitempty"`
}

// Receipt acknowledges that a push reached the local inbox.
type Receipt struct {
	InboxItemID string    `json:"inbox_item_id"`
	SaleID      string    `json:"sale_id,omitempty"`
	DeviceID    string    `json:"device_id,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// InboxWriter stores an arrived push.
type InboxWriter interface {
	AddItem(ctx context.Context, title, body string) models.InboxItem
}

// TriggerSink starts a refresh.
type TriggerSink interface {
	Trigger(t models.Trigger) bool
}

// ReceiptPublisher sends receipts back to the backend.
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, r Receipt) error
}

// EventProcessor applies push events to local state.
type EventProcessor struct {
	inbox    InboxWriter
	triggers TriggerSink
	receipts ReceiptPublisher
	deviceID func() string
	logger   *zap.Logger
	now      func() time.Time
}

// NewEventProcessor builds a processor. receipts may be nil.
func NewEventProcessor(inbox InboxWriter, triggers TriggerSink, receipts ReceiptPublisher, deviceID func() string, logger *zap.Logger) *EventProcessor {
	return &EventProcessor{
		inbox:    inbox,
		triggers: triggers,
		receipts: receipts,
		deviceID: deviceID,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessEvent routes an event by type.
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, data []byte) error {
	switch eventType {
	case EventTypePushDelivered:
		return p.handlePushDelivered(ctx, data)
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrPermanent, eventType)
	}
}

func (p *EventProcessor) handlePushDelivered(ctx context.Context, data []byte) error {
	var msg PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: failed to unmarshal push: %v", ErrPermanent, err)
	}
	if strings.TrimSpace(msg.Title) == "" {
		return fmt.Errorf("%w: push has no title", ErrPermanent)
	}

	item := p.inbox.AddItem(ctx, msg.Title, msg.Body)
	p.logger.Info("Push added to inbox",
		zap.String("inbox_item_id", item.ID),
		zap.String("sale_id", msg.SaleID),
	)

	if p.triggers != nil {
		p.triggers.Trigger(models.TriggerPush)
	}

	if p.receipts == nil {
		return nil
	}
	receipt := Receipt{
		InboxItemID: item.ID,
		SaleID:      msg.SaleID,
		ReceivedAt:  p.now().UTC(),
	}
	if p.deviceID != nil {
		receipt.DeviceID = p.deviceID()
	}
	if err := p.receipts.PublishReceipt(ctx, receipt); err != nil {
		// the item is already stored; a missing receipt must not re-add it
		p.logger.Warn("Failed to publish push receipt", zap.Error(err))
	}
	return nil
}
