package postgres

import (
	"context"
	"fmt"

	"mana-universe-api/internal/domain/entity"
)

// BeatRepository 节拍仓储实现
type BeatRepository struct {
	client *Client
}

// NewBeatRepository 创建节拍仓储
func NewBeatRepository(client *Client) *BeatRepository {
	return &BeatRepository{client: client}
}

// Create 创建节拍
func (r *BeatRepository) Create(ctx context.Context, beat *entity.Beat) error {
	ctx, span := tracer.Start(ctx, "postgres.BeatRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(beat).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create beat: %w", err)
	}
	return nil
}

// ListByUniverse 按全局顺序列出节拍
func (r *BeatRepository) ListByUniverse(ctx context.Context, universeID string) ([]*entity.Beat, error) {
	ctx, span := tracer.Start(ctx, "postgres.BeatRepository.ListByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var beats []*entity.Beat
	if err := db.Where("universe_id = ?", universeID).Order("order_index ASC").Order("created_at ASC").Find(&beats).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list beats: %w", err)
	}
	return beats, nil
}

// DeleteByUniverse 删除宇宙全部节拍
func (r *BeatRepository) DeleteByUniverse(ctx context.Context, universeID string) error {
	ctx, span := tracer.Start(ctx, "postgres.BeatRepository.DeleteByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("universe_id = ?", universeID).Delete(&entity.Beat{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete beats: %w", err)
	}
	return nil
}
