package postgres

import (
	"context"
	"fmt"

	"mana-universe-api/internal/domain/entity"
)

// CharacterRepository 角色仓储实现
type CharacterRepository struct {
	client *Client
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{client: client}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(character).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// ListByUniverse 按位置列出角色
func (r *CharacterRepository) ListByUniverse(ctx context.Context, universeID string) ([]*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.ListByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var characters []*entity.Character
	if err := db.Where("universe_id = ?", universeID).Order("position ASC").Find(&characters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// DeleteByUniverse 删除宇宙全部角色
func (r *CharacterRepository) DeleteByUniverse(ctx context.Context, universeID string) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.DeleteByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("universe_id = ?", universeID).Delete(&entity.Character{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete characters: %w", err)
	}
	return nil
}

// LocationRepository 地点仓储实现
type LocationRepository struct {
	client *Client
}

// NewLocationRepository 创建地点仓储
func NewLocationRepository(client *Client) *LocationRepository {
	return &LocationRepository{client: client}
}

// Create 创建地点
func (r *LocationRepository) Create(ctx context.Context, location *entity.Location) error {
	ctx, span := tracer.Start(ctx, "postgres.LocationRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(location).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// ListByUniverse 按位置列出地点
func (r *LocationRepository) ListByUniverse(ctx context.Context, universeID string) ([]*entity.Location, error) {
	ctx, span := tracer.Start(ctx, "postgres.LocationRepository.ListByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var locations []*entity.Location
	if err := db.Where("universe_id = ?", universeID).Order("position ASC").Find(&locations).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// DeleteByUniverse 删除宇宙全部地点
func (r *LocationRepository) DeleteByUniverse(ctx context.Context, universeID string) error {
	ctx, span := tracer.Start(ctx, "postgres.LocationRepository.DeleteByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("universe_id = ?", universeID).Delete(&entity.Location{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete locations: %w", err)
	}
	return nil
}
