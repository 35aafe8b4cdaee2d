package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"mana-universe-api/internal/domain/entity"
)

// AuditEventRepository 审计记录仓储实现
type AuditEventRepository struct {
	client *Client
}

// NewAuditEventRepository 创建审计记录仓储
func NewAuditEventRepository(client *Client) *AuditEventRepository {
	return &AuditEventRepository{client: client}
}

// Append 追加记录，重复的 message_id 被忽略
func (r *AuditEventRepository) Append(ctx context.Context, event *entity.AuditEvent) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.AuditEventRepository.Append")
	defer span.End()

	db := getDB(ctx, r.client.db)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to append audit event: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByUniverse 按保存时间倒序列出
func (r *AuditEventRepository) ListByUniverse(ctx context.Context, universeID string, limit int) ([]*entity.AuditEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.AuditEventRepository.ListByUniverse")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	db := getDB(ctx, r.client.db)
	var events []*entity.AuditEvent
	if err := db.Where("universe_id = ?", universeID).Order("saved_at DESC").Limit(limit).Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}
