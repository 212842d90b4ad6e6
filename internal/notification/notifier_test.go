package notification

import (
	"context"
	"errors"
	"testing"

	"garage/internal/jobs"
	jobmocks "garage/internal/jobs/mocks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(eventType string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return p.err
}

func TestService_Send(t *testing.T) {
	t.Run("fans out per channel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dispatcher := jobmocks.NewMockDispatcher(ctrl)
		pub := &recordingPublisher{}
		svc := NewService(pub, dispatcher, zap.NewNop())

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, task *asynq.Task) error {
				if task.Type() != jobs.TypeDeliverNotification {
					t.Fatalf("unexpected task type %s", task.Type())
				}
				return nil
			}).Times(2)

		err := svc.Send(context.Background(), Notification{
			EventType: EventWorkOrderStatusChanged,
			Recipient: Recipient{Email: "ana@example.com", Name: "Ana", Phone: "+5511999999999"},
			Channels:  []string{ChannelInApp, ChannelEmail, ChannelSMS},
			Priority:  PriorityHigh,
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{EventWorkOrderStatusChanged}, pub.events)
	})

	t.Run("skips sms without phone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dispatcher := jobmocks.NewMockDispatcher(ctrl)
		svc := NewService(&recordingPublisher{}, dispatcher, zap.NewNop())

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		err := svc.Send(context.Background(), Notification{
			EventType: EventInvoiceCreated,
			Recipient: Recipient{Email: "ana@example.com"},
			Channels:  []string{ChannelEmail, ChannelSMS},
		})
		assert.NoError(t, err)
	})

	t.Run("joins channel errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dispatcher := jobmocks.NewMockDispatcher(ctrl)
		pub := &recordingPublisher{err: errors.New("hub full")}
		svc := NewService(pub, dispatcher, zap.NewNop())

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		err := svc.Send(context.Background(), Notification{
			EventType: EventInvoiceCreated,
			Recipient: Recipient{Email: "ana@example.com"},
			Channels:  []string{ChannelInApp, ChannelEmail, "pager"},
		})
		assert.ErrorContains(t, err, "hub full")
		assert.ErrorContains(t, err, "redis down")
		assert.ErrorContains(t, err, "pager")
	})
}
