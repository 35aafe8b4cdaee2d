package postgres

import (
	"context"
	"fmt"

	"mana-universe-api/internal/domain/entity"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// Create 创建章节
func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

// CreateScene 创建场景
func (r *ChapterRepository) CreateScene(ctx context.Context, scene *entity.Scene) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.CreateScene")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(scene).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create scene: %w", err)
	}
	return nil
}

// ListByUniverse 按位置列出章节
func (r *ChapterRepository) ListByUniverse(ctx context.Context, universeID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapters []*entity.Chapter
	if err := db.Where("universe_id = ?", universeID).Order("position ASC").Find(&chapters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

// ListScenes 列出多个章节的场景
func (r *ChapterRepository) ListScenes(ctx context.Context, chapterIDs []string) ([]*entity.Scene, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListScenes")
	defer span.End()

	if len(chapterIDs) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.client.db)
	var scenes []*entity.Scene
	if err := db.Where("chapter_id IN ?", chapterIDs).Order("chapter_id").Order("position ASC").Find(&scenes).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return scenes, nil
}

// DeleteByUniverse 删除宇宙全部章节及场景
func (r *ChapterRepository) DeleteByUniverse(ctx context.Context, universeID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.DeleteByUniverse")
	defer span.End()

	db := getDB(ctx, r.client.db)
	chapterIDs := db.Model(&entity.Chapter{}).Select("id").Where("universe_id = ?", universeID)
	if err := db.Where("chapter_id IN (?)", chapterIDs).Delete(&entity.Scene{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete scenes: %w", err)
	}
	if err := db.Where("universe_id = ?", universeID).Delete(&entity.Chapter{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapters: %w", err)
	}
	return nil
}
