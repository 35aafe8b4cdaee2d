package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
)

// UniverseRepository 宇宙仓储实现
type UniverseRepository struct {
	client *Client
}

// NewUniverseRepository 创建宇宙仓储
func NewUniverseRepository(client *Client) *UniverseRepository {
	return &UniverseRepository{client: client}
}

// Create 创建宇宙
func (r *UniverseRepository) Create(ctx context.Context, universe *entity.Universe) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(universe).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create universe: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取宇宙
func (r *UniverseRepository) GetByID(ctx context.Context, id string) (*entity.Universe, error) {
	ctx, span := tracer.Start(ctx, "postgres.UniverseRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var universe entity.Universe
	if err := db.First(&universe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get universe: %w", err)
	}
	return &universe, nil
}

// Update 更新宇宙
func (r *UniverseRepository) Update(ctx context.Context, universe *entity.Universe) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(universe).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update universe: %w", err)
	}
	return nil
}

// Delete 删除宇宙
func (r *UniverseRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Universe{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete universe: %w", err)
	}
	return nil
}

// ListAccessible 列出用户拥有或被共享的宇宙，按更新时间倒序
func (r *UniverseRepository) ListAccessible(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Universe], error) {
	ctx, span := tracer.Start(ctx, "postgres.UniverseRepository.ListAccessible")
	defer span.End()

	db := getDB(ctx, r.client.db)
	shared := db.Model(&entity.UniverseShare{}).Select("universe_id").Where("user_id = ?", userID)
	query := db.Model(&entity.Universe{}).Where("user_id = ? OR id IN (?)", userID, shared)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count universes: %w", err)
	}

	var universes []*entity.Universe
	if err := query.Order("updated_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&universes).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list universes: %w", err)
	}

	return repository.NewPagedResult(universes, total, pagination), nil
}
