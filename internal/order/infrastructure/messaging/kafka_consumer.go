package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/deliveryhub/internal/order/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
	"github.com/wyfcoding/deliveryhub/pkg/mq"
)

// OrderConfirmer 订单确认端口，由应用服务实现
type OrderConfirmer interface {
	ConfirmOrder(ctx context.Context, id uint) error
}

// OrderSubmittedConsumer 消费 order.submitted 事件并异步确认订单。
// 处理失败的消息投递到死信队列，消费不中断。
type OrderSubmittedConsumer struct {
	consumer  *mq.KafkaConsumer
	dlq       *mq.DeadLetterQueue
	confirmer OrderConfirmer
}

// NewOrderSubmittedConsumer 创建确认消费者
func NewOrderSubmittedConsumer(
	consumer *mq.KafkaConsumer,
	dlq *mq.DeadLetterQueue,
	confirmer OrderConfirmer,
) *OrderSubmittedConsumer {
	return &OrderSubmittedConsumer{
		consumer:  consumer,
		dlq:       dlq,
		confirmer: confirmer,
	}
}

// Run 消费循环，直到 ctx 取消
func (c *OrderSubmittedConsumer) Run(ctx context.Context) {
	logger.Info(ctx, "Order confirmation consumer started")

	for {
		msg, err := c.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Order confirmation consumer stopped")
				return
			}
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			logger.Error(ctx, "Failed to process order submitted event",
				"key", msg.Key,
				"offset", msg.Offset,
				"error", err,
			)
			if dlqErr := c.dlq.Send(ctx, msg, "order confirmation failed", err); dlqErr != nil {
				logger.Error(ctx, "Failed to send message to dead letter queue", "error", dlqErr)
			}
		}
	}
}

// handle 处理单条消息
func (c *OrderSubmittedConsumer) handle(ctx context.Context, msg *mq.Message) error {
	var event domain.OrderSubmittedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return fmt.Errorf("unmarshal order submitted event: %w", err)
	}
	if event.OrderID == 0 {
		return errors.New("order submitted event missing order id")
	}

	if err := c.confirmer.ConfirmOrder(ctx, event.OrderID); err != nil {
		// 已离开待确认态的订单视为重复投递，跳过
		if errors.Is(err, domain.ErrInvalidTransition) {
			logger.Warn(ctx, "Order already processed, skipping", "order_id", event.OrderID)
			return nil
		}
		return fmt.Errorf("confirm order %d: %w", event.OrderID, err)
	}

	logger.Info(ctx, "Order confirmed", "order_id", event.OrderID, "session_id", event.SessionID)
	return nil
}
