package repository

import (
	"context"

	"mana-universe-api/internal/domain/entity"
)

// PromptTemplateRepository 提示词模板仓储接口
type PromptTemplateRepository interface {
	Create(ctx context.Context, tpl *entity.PromptTemplate) error
	GetByID(ctx context.Context, id string) (*entity.PromptTemplate, error)
	Update(ctx context.Context, tpl *entity.PromptTemplate) error
	Delete(ctx context.Context, id string) error

	// ListByUser 按创建时间列出用户模板
	ListByUser(ctx context.Context, userID string) ([]*entity.PromptTemplate, error)

	// GetDefault 获取用户默认模板，没有标记默认时返回最早创建的模板
	GetDefault(ctx context.Context, userID string) (*entity.PromptTemplate, error)

	// CountByUser 统计用户模板数量
	CountByUser(ctx context.Context, userID string) (int64, error)
}
