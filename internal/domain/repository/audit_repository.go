package repository

import (
	"context"

	"mana-universe-api/internal/domain/entity"
)

// AuditEventRepository 审计记录仓储接口
type AuditEventRepository interface {
	// Append 追加记录，MessageID 已存在时返回 false
	Append(ctx context.Context, event *entity.AuditEvent) (bool, error)

	// ListByUniverse 按保存时间倒序列出宇宙的审计记录
	ListByUniverse(ctx context.Context, universeID string, limit int) ([]*entity.AuditEvent, error)
}
