package repository

import (
	"context"

	"mana-universe-api/internal/domain/entity"
)

// UniverseRepository 宇宙仓储接口
type UniverseRepository interface {
	// Create 创建宇宙
	Create(ctx context.Context, universe *entity.Universe) error

	// GetByID 根据 ID 获取宇宙，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Universe, error)

	// Update 更新宇宙
	Update(ctx context.Context, universe *entity.Universe) error

	// Delete 删除宇宙记录本身
	Delete(ctx context.Context, id string) error

	// ListAccessible 列出用户拥有或被共享的宇宙
	ListAccessible(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Universe], error)
}

// UniverseShareRepository 共享记录仓储接口
type UniverseShareRepository interface {
	// Create 创建共享
	Create(ctx context.Context, share *entity.UniverseShare) error

	// GetByID 根据 ID 获取共享
	GetByID(ctx context.Context, id string) (*entity.UniverseShare, error)

	// GetByUniverseAndUser 获取某用户在宇宙上的共享记录
	GetByUniverseAndUser(ctx context.Context, universeID, userID string) (*entity.UniverseShare, error)

	// Update 更新共享
	Update(ctx context.Context, share *entity.UniverseShare) error

	// Delete 删除共享
	Delete(ctx context.Context, id string) error

	// ListByUniverse 列出宇宙的全部共享
	ListByUniverse(ctx context.Context, universeID string) ([]*entity.UniverseShare, error)

	// DeleteByUniverse 删除宇宙的全部共享
	DeleteByUniverse(ctx context.Context, universeID string) error
}
