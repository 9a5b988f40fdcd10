package app

import (
	"context"
	"encoding/json"

	"chat_admin_service/internal/suggestion/domain"
	"chat_admin_service/pkg/database"
	"chat_admin_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Worker 消化 suggestion queue 的 RabbitMQ consumer
type Worker struct {
	rabbit database.RabbitRepo
	queue  string
	uc     *SuggestUseCase
}

// NewWorker create Worker
func NewWorker(rabbit database.RabbitRepo, queue string, uc *SuggestUseCase) *Worker {
	return &Worker{rabbit: rabbit, queue: queue, uc: uc}
}

// Run 持續消費工作直到 ctx 取消
func (w *Worker) Run(ctx context.Context) error {
	ch := w.rabbit.GetRabbit()
	if _, err := ch.QueueDeclare(w.queue, true, false, false, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(w.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var job domain.SuggestionJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Log.Error("suggestion job unmarshal err :", zap.String("err", err.Error()))
		// 壞掉的 payload 重送也不會好
		d.Nack(false, false)
		return
	}

	if _, err := w.uc.Execute(ctx, job); err != nil {
		logger.Log.Error("suggestion job err :",
			zap.String("room", job.RoomID), zap.String("err", err.Error()))
		// DB 或 Redis 短暫故障時重排一次，已重送過的才丟棄
		d.Nack(false, !d.Redelivered)
		return
	}
	d.Ack(false)
}
