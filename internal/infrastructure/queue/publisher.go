package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"dealflow/internal/domain/entity"
)

const defaultMaxRetry = 5

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher enqueues committed deal events for asynchronous delivery.
type Publisher struct {
	client   enqueuer
	queue    string
	maxRetry int
	timeout  time.Duration
}

func NewPublisher(client enqueuer) *Publisher {
	return &Publisher{
		client:   client,
		queue:    QueueNotifications,
		maxRetry: defaultMaxRetry,
		timeout:  time.Minute,
	}
}

func (p *Publisher) WithQueue(queue string) *Publisher {
	p.queue = queue
	return p
}

func (p *Publisher) WithMaxRetry(n int) *Publisher {
	p.maxRetry = n
	return p
}

func (p *Publisher) Publish(ctx context.Context, event entity.Event) error {
	task, err := NewDealEventTask(event)
	if err != nil {
		return err
	}

	if _, err := p.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(p.queue),
		asynq.MaxRetry(p.maxRetry),
		asynq.Timeout(p.timeout),
	); err != nil {
		return fmt.Errorf("asynq.EnqueueContext: %w", err)
	}

	return nil
}
