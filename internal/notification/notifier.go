package notification

import (
	"context"
	"errors"
	"fmt"

	"garage/internal/jobs"

	"go.uber.org/zap"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Event types
const (
	EventWorkOrderStatusChanged = "work_order.status_changed"
	EventInvoiceCreated         = "invoice.created"
	EventPaymentReceived        = "payment.received"
	EventStockChanged           = "inventory.stock_changed"
)

type Recipient struct {
	Email string
	Name  string
	Phone string
}

type Notification struct {
	EventType string
	Recipient Recipient
	Data      map[string]interface{}
	Channels  []string
	Priority  string
}

// Notifier delivers lifecycle events. Callers treat it as fire and forget.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// Publisher pushes in-app events to connected clients.
type Publisher interface {
	Publish(eventType string, data interface{}) error
}

// Service fans a notification out per channel: in-app events go to the
// websocket hub, outbound channels become background delivery tasks.
type Service struct {
	publisher  Publisher
	dispatcher jobs.Dispatcher
	log        *zap.Logger
}

func NewService(publisher Publisher, dispatcher jobs.Dispatcher, log *zap.Logger) *Service {
	return &Service{publisher: publisher, dispatcher: dispatcher, log: log}
}

func (s *Service) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, channel := range n.Channels {
		switch channel {
		case ChannelInApp:
			if err := s.publisher.Publish(n.EventType, n.Data); err != nil {
				errs = append(errs, fmt.Errorf("in_app: %w", err))
			}
		case ChannelEmail, ChannelSMS:
			if channel == ChannelEmail && n.Recipient.Email == "" {
				continue
			}
			if channel == ChannelSMS && n.Recipient.Phone == "" {
				continue
			}
			task, err := jobs.NewDeliverNotificationTask(jobs.DeliverNotificationPayload{
				EventType: n.EventType,
				Channel:   channel,
				Priority:  n.Priority,
				Recipient: jobs.Recipient{Email: n.Recipient.Email, Name: n.Recipient.Name, Phone: n.Recipient.Phone},
				Data:      n.Data,
			})
			if err == nil {
				err = s.dispatcher.Dispatch(ctx, task)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", channel, err))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown channel %q", channel))
		}
	}
	return errors.Join(errs...)
}

// LogDeliverer is the outbound delivery used until a mail/SMS provider is
// configured. It records what would have been sent.
type LogDeliverer struct {
	log *zap.Logger
}

func NewLogDeliverer(log *zap.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(_ context.Context, p jobs.DeliverNotificationPayload) error {
	d.log.Info("notification delivered",
		zap.String("event", p.EventType),
		zap.String("channel", p.Channel),
		zap.String("priority", p.Priority),
		zap.String("recipient", p.Recipient.Email),
		zap.Any("data", p.Data))
	return nil
}

// LogPublisher stands in for the websocket hub in processes without
// connected clients, such as the background worker.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(eventType string, data interface{}) error {
	p.log.Debug("in-app event dropped, no hub attached", zap.String("event", eventType), zap.Any("data", data))
	return nil
}
