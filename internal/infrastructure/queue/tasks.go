package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"dealflow/internal/domain/entity"
	"dealflow/pkg/contextx"
)

var (
	logger = contextx.LoggerFromContextOrDefault         //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

const (
	TaskDealEvent = "deal:event"

	QueueNotifications = "notifications"
)

func NewDealEventTask(event entity.Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return asynq.NewTask(TaskDealEvent, data), nil
}

func ParseDealEventTask(task *asynq.Task) (entity.Event, error) {
	var event entity.Event
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		return entity.Event{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	return event, nil
}
