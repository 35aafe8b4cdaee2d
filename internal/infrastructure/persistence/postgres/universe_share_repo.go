package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mana-universe-api/internal/domain/entity"
)

// UniverseShareRepository 共享仓储实现
type UniverseShareRepository struct {
	client *Client
}

// NewUniverseShareRepository 创建共享仓储
func NewUniverseShareRepository(client *Client) *UniverseShareRepository {
	return &UniverseShareRepository{client: client}
}

// Create 创建共享
func (r *UniverseShareRepository) Create(ctx context.Context, share *entity.UniverseShare) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(share).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create universe share: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取共享
func (r *UniverseShareRepository) GetByID(ctx context.Context, id string) (*entity.UniverseShare, error) {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.GetByID")
	defer span.End()

	return r.first(ctx, "id = ?", id)
}

// GetByUniverseAndUser 获取用户在宇宙上的共享
func (r *UniverseShareRepository) GetByUniverseAndUser(ctx context.Context, universeID, userID string) (*entity.UniverseShare, error) {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.GetByUniverseAndUser")
	defer span.End()

	return r.first(ctx, "universe_id = ? AND user_id = ?", universeID, userID)
}

func (r *UniverseShareRepository) first(ctx context.Context, query string, args ...any) (*entity.UniverseShare, error) {
	db := getDB(ctx, r.client.db)
	var share entity.UniverseShare
	if err := db.Where(query, args...).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get universe share: %w", err)
	}
	return &share, nil
}

// Update 更新共享
func (r *UniverseShareRepository) Update(ctx context.Context, share *entity.UniverseShare) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(share).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update universe share: %w", err)
	}
	return nil
}

// Delete 删除共享
func (r *UniverseShareRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.UniverseShare{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete universe share: %w", err)
	}
	return nil
}

// ListByUniverse 列出宇宙的共享
func (r *UniverseShareRepository) ListByUniverse(ctx context.Context, universeID string) ([]*entity.UniverseShare, error) {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.ListByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var shares []*entity.UniverseShare
	if err := db.Where("universe_id = ?", universeID).Order("created_at ASC").Find(&shares).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list universe shares: %w", err)
	}
	return shares, nil
}

// DeleteByUniverse 删除宇宙的全部共享
func (r *UniverseShareRepository) DeleteByUniverse(ctx context.Context, universeID string) error {
	ctx, span := tracer.Start(ctx, "postgres.UniverseShareRepository.DeleteByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("universe_id = ?", universeID).Delete(&entity.UniverseShare{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete universe shares: %w", err)
	}
	return nil
}
