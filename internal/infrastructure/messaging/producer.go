package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mana-universe-api/internal/domain/service"
	"mana-universe-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client      *redis.Client
	maxLen      int64
	auditStream Stream
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64, auditStream string) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	stream := Stream(auditStream)
	if stream == "" {
		stream = DefaultAuditStream
	}
	return &Producer{
		client:      client,
		maxLen:      maxLen,
		auditStream: stream,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RedisStreamPublished.WithLabelValues(string(stream), "success").Inc()
	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishUniverseSaved 发布宇宙保存审计事件
func (p *Producer) PublishUniverseSaved(ctx context.Context, event *service.UniverseSavedEvent) error {
	msg, err := NewMessage(uuid.NewString(), TypeUniverseSaved, event.UserID, event.UniverseID, event)
	if err != nil {
		return err
	}
	msg.SetMetadata("request_id", event.RequestID)
	msg.SetMetadata("mode", event.Mode)

	_, err = p.Publish(ctx, p.auditStream, msg)
	return err
}

// AuditStream 审计流名称
func (p *Producer) AuditStream() Stream {
	return p.auditStream
}
