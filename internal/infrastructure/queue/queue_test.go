package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

type enqueuerStub struct {
	tasks []*asynq.Task
	err   error
}

func (s *enqueuerStub) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type notifierStub struct {
	events []entity.Event
	err    error
}

func (n *notifierStub) Notify(_ context.Context, e entity.Event) error {
	n.events = append(n.events, e)
	return n.err
}

func testEvent() entity.Event {
	return entity.Event{
		Type:       entity.EventMatched,
		DealID:     "d1",
		City:       "Tampa",
		To:         value.StatusScored,
		BuyerID:    "b1",
		BuyerName:  "Acme",
		ProfitFlag: value.FlagGreen,
		Spread:     lo.ToPtr(75000.0),
		Score:      80,
		At:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublisherToHandler(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	stub := &enqueuerStub{}
	rq.NoError(NewPublisher(stub).Publish(ctx, testEvent()))
	rq.Len(stub.tasks, 1)
	rq.Equal(TaskDealEvent, stub.tasks[0].Type())

	notifier := &notifierStub{}
	rq.NoError(NewHandler(notifier).HandleDealEvent(ctx, stub.tasks[0]))
	rq.Len(notifier.events, 1)
	rq.Equal(testEvent(), notifier.events[0])
}

func TestHandler_Errors(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		task      *asynq.Task
		notifyErr error
		skipRetry bool
	}{
		{
			name:      "malformed payload is not retried",
			task:      asynq.NewTask(TaskDealEvent, []byte("{")),
			skipRetry: true,
		},
		{
			name: "delivery failure is retried",
			task: func() *asynq.Task {
				task, _ := NewDealEventTask(testEvent())
				return task
			}(),
			notifyErr: errors.New("telegram down"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			err := NewHandler(&notifierStub{err: tc.notifyErr}).HandleDealEvent(ctx, tc.task)
			rq.Error(err)
			rq.Equal(tc.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestPublisher_EnqueueError(t *testing.T) {
	err := NewPublisher(&enqueuerStub{err: errors.New("redis down")}).Publish(context.Background(), testEvent())
	require.ErrorContains(t, err, "redis down")
}
