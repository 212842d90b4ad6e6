package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Dispatcher hands a task to the background workers.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *asynq.Task) error
}

// AsynqDispatcher enqueues tasks on Redis for cmd/worker to pick up.
type AsynqDispatcher struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewAsynqDispatcher(opt asynq.RedisClientOpt, log *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(opt), log: log}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, task *asynq.Task) error {
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	d.log.Debug("task enqueued", zap.String("type", task.Type()), zap.String("id", info.ID), zap.String("queue", info.Queue))
	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}

// InlineDispatcher runs tasks in-process on a goroutine through the same
// ServeMux the worker uses. Meant for single-binary dev setups without Redis.
type InlineDispatcher struct {
	mux *asynq.ServeMux
	log *zap.Logger
}

func NewInlineDispatcher(mux *asynq.ServeMux, log *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{mux: mux, log: log}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, task *asynq.Task) error {
	go func() {
		// request context is gone once the handler returns
		if err := d.mux.ProcessTask(context.Background(), task); err != nil {
			d.log.Warn("inline task failed", zap.String("type", task.Type()), zap.Error(err))
		}
	}()
	return nil
}
