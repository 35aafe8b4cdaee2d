package repository

import (
	"context"

	"mana-universe-api/internal/domain/entity"
)

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	ListByUniverse(ctx context.Context, universeID string) ([]*entity.Character, error)
	DeleteByUniverse(ctx context.Context, universeID string) error
}

// LocationRepository 地点仓储接口
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	ListByUniverse(ctx context.Context, universeID string) ([]*entity.Location, error)
	DeleteByUniverse(ctx context.Context, universeID string) error
}

// ChapterRepository 章节与场景仓储接口
type ChapterRepository interface {
	// Create 创建章节
	Create(ctx context.Context, chapter *entity.Chapter) error

	// CreateScene 创建场景
	CreateScene(ctx context.Context, scene *entity.Scene) error

	// ListByUniverse 按位置列出章节
	ListByUniverse(ctx context.Context, universeID string) ([]*entity.Chapter, error)

	// ListScenes 按章节 ID 和位置列出场景
	ListScenes(ctx context.Context, chapterIDs []string) ([]*entity.Scene, error)

	// DeleteByUniverse 删除宇宙的全部章节及其场景
	DeleteByUniverse(ctx context.Context, universeID string) error
}

// BeatRepository 节拍仓储接口
type BeatRepository interface {
	// Create 创建单个节拍
	Create(ctx context.Context, beat *entity.Beat) error

	// ListByUniverse 按 OrderIndex 升序列出节拍
	ListByUniverse(ctx context.Context, universeID string) ([]*entity.Beat, error)

	// DeleteByUniverse 删除宇宙的全部节拍
	DeleteByUniverse(ctx context.Context, universeID string) error
}
