// Package messaging 购物车事件的 Kafka 发布实现
package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/honeyshop/internal/cart/domain"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/mq"
)

// envelope 事件外层结构
type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher domain.EventPublisher 的 Kafka 实现，发布失败仅记录日志
type KafkaPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaPublisher 创建 Kafka 事件发布器
func NewKafkaPublisher(producer *mq.KafkaProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish 发布事件，尽力而为
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	msg := envelope{Type: eventType, OccurredAt: time.Now(), Payload: event}
	if err := p.producer.SendMessage(ctx, p.topic, key, msg); err != nil {
		logger.Warn(ctx, "Failed to publish cart event", "type", eventType, "error", err)
		return err
	}
	return nil
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)
