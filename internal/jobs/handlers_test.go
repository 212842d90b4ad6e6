package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	rendered []uuid.UUID
	err      error
}

func (f *fakeRenderer) RenderInvoicePDF(_ context.Context, id uuid.UUID) error {
	f.rendered = append(f.rendered, id)
	return f.err
}

type fakeDeliverer struct {
	delivered []DeliverNotificationPayload
}

func (f *fakeDeliverer) Deliver(_ context.Context, p DeliverNotificationPayload) error {
	f.delivered = append(f.delivered, p)
	return nil
}

func newMux(r *fakeRenderer, d *fakeDeliverer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	Register(mux, r, d, zap.NewNop())
	return mux
}

func TestRenderInvoicePDFTask(t *testing.T) {
	renderer := &fakeRenderer{}
	mux := newMux(renderer, &fakeDeliverer{})
	id := uuid.New()

	task, err := NewRenderInvoicePDFTask(id)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	assert.Equal(t, []uuid.UUID{id}, renderer.rendered)
}

func TestRenderInvoicePDFTask_PropagatesFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("upload failed")}
	mux := newMux(renderer, &fakeDeliverer{})

	task, err := NewRenderInvoicePDFTask(uuid.New())
	require.NoError(t, err)

	assert.Error(t, mux.ProcessTask(context.Background(), task))
}

func TestRenderInvoicePDFTask_BadPayloadSkipsRetry(t *testing.T) {
	mux := newMux(&fakeRenderer{}, &fakeDeliverer{})

	err := mux.ProcessTask(context.Background(), asynq.NewTask(TypeRenderInvoicePDF, []byte(`{"invoice_id":"nope"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDeliverNotificationTask(t *testing.T) {
	deliverer := &fakeDeliverer{}
	mux := newMux(&fakeRenderer{}, deliverer)

	payload := DeliverNotificationPayload{
		EventType: "work_order.status_changed",
		Channel:   "email",
		Priority:  "high",
		Recipient: Recipient{Email: "ana@example.com", Name: "Ana"},
		Data:      map[string]interface{}{"new_status": "COMPLETED"},
	}
	task, err := NewDeliverNotificationTask(payload)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	require.Len(t, deliverer.delivered, 1)
	assert.Equal(t, "ana@example.com", deliverer.delivered[0].Recipient.Email)
	assert.Equal(t, "COMPLETED", deliverer.delivered[0].Data["new_status"])
}
