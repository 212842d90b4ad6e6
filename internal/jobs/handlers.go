package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type InvoicePDFRenderer interface {
	RenderInvoicePDF(ctx context.Context, invoiceID uuid.UUID) error
}

type NotificationDeliverer interface {
	Deliver(ctx context.Context, p DeliverNotificationPayload) error
}

// Register mounts the task handlers on mux.
func Register(mux *asynq.ServeMux, renderer InvoicePDFRenderer, deliverer NotificationDeliverer, log *zap.Logger) {
	mux.HandleFunc(TypeRenderInvoicePDF, handleRenderInvoicePDF(renderer, log))
	mux.HandleFunc(TypeDeliverNotification, handleDeliverNotification(deliverer, log))
}

func handleRenderInvoicePDF(renderer InvoicePDFRenderer, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		id, err := parseInvoiceID(task)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := renderer.RenderInvoicePDF(ctx, id); err != nil {
			log.Warn("invoice pdf render failed", zap.String("invoice_id", id.String()), zap.Error(err))
			return err
		}
		log.Info("invoice pdf rendered", zap.String("invoice_id", id.String()))
		return nil
	}
}

func handleDeliverNotification(deliverer NotificationDeliverer, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p DeliverNotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		if err := deliverer.Deliver(ctx, p); err != nil {
			log.Warn("notification delivery failed",
				zap.String("event", p.EventType),
				zap.String("channel", p.Channel),
				zap.Error(err))
			return err
		}
		return nil
	}
}

// NewServer builds the asynq worker server with weighted queues.
func NewServer(opt asynq.RedisClientOpt, concurrency int, log *zap.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
}
