package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeRenderInvoicePDF    = "invoice:render_pdf"
	TypeDeliverNotification = "notification:deliver"
)

type RenderInvoicePDFPayload struct {
	InvoiceID string `json:"invoice_id"`
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// DeliverNotificationPayload is one notification on one outbound channel.
type DeliverNotificationPayload struct {
	EventType string                 `json:"event_type"`
	Channel   string                 `json:"channel"`
	Priority  string                 `json:"priority"`
	Recipient Recipient              `json:"recipient"`
	Data      map[string]interface{} `json:"data"`
}

func NewRenderInvoicePDFTask(invoiceID uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(RenderInvoicePDFPayload{InvoiceID: invoiceID.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRenderInvoicePDF, b,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
		asynq.Queue(QueueDefault),
	), nil
}

func NewDeliverNotificationTask(p DeliverNotificationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	queue := QueueDefault
	if p.Priority == "high" {
		queue = QueueCritical
	}
	return asynq.NewTask(TypeDeliverNotification, b,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Queue(queue),
	), nil
}

func parseInvoiceID(task *asynq.Task) (uuid.UUID, error) {
	var p RenderInvoicePDFPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	return uuid.Parse(p.InvoiceID)
}
