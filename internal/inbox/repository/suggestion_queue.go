package repository

import (
	"encoding/json"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/pkg/database"

	"github.com/streadway/amqp"
)

// SuggestionQueue definition AI suggestion job publisher
type SuggestionQueue interface {
	Enqueue(job domain.SuggestionJob) error
}

type suggestionQueue struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewSuggestionQueue create a SuggestionQueue, declare queue 確保存在
func NewSuggestionQueue(rabbit database.RabbitRepo, queue string) (SuggestionQueue, error) {
	_, err := rabbit.GetRabbit().QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &suggestionQueue{rabbit: rabbit, queue: queue}, nil
}

func (q *suggestionQueue) Enqueue(job domain.SuggestionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return q.rabbit.Publish("", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         data,
	})
}
