// Package universe 提供宇宙内容的生成、保存与读取
package universe

import (
	"context"
	"fmt"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	wfmodel "mana-universe-api/internal/workflow/model"
	wfnode "mana-universe-api/internal/workflow/node"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/metrics"
)

// Mode 落库模式
type Mode string

const (
	// ModeCreate 新建宇宙及其内容
	ModeCreate Mode = "create"
	// ModeReplace 删除已有内容后整体重建
	ModeReplace Mode = "replace"
)

// MaterializedCounts 各类记录写入数量
type MaterializedCounts struct {
	Characters int `json:"characters"`
	Locations  int `json:"locations"`
	Chapters   int `json:"chapters"`
	Scenes     int `json:"scenes"`
	Beats      int `json:"beats"`
}

// ContentRepos 内容落库所需仓储
type ContentRepos struct {
	Universes  repository.UniverseRepository
	Characters repository.CharacterRepository
	Locations  repository.LocationRepository
	Chapters   repository.ChapterRepository
	Beats      repository.BeatRepository
}

// Materializer 将内容树写入数据库，整个过程在单个事务内完成
type Materializer struct {
	tx    repository.Transactor
	repos ContentRepos
}

// NewMaterializer 创建落库器
func NewMaterializer(tx repository.Transactor, repos ContentRepos) *Materializer {
	return &Materializer{tx: tx, repos: repos}
}

// Materialize 写入内容树
//
// ModeCreate 会同时创建 universe 记录；ModeReplace 更新 universe 并先清空其全部内容。
// 任一步失败都会回滚，返回 PersistenceError，已有内容保持不变。
func (m *Materializer) Materialize(ctx context.Context, universe *entity.Universe, tree *wfmodel.GenerationResult, mode Mode) (*MaterializedCounts, error) {
	if universe == nil || tree == nil {
		return nil, apperrors.Persistence(fmt.Errorf("universe and content are required"))
	}

	var counts *MaterializedCounts
	err := m.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := m.saveUniverse(ctx, universe, mode); err != nil {
			return err
		}
		if mode == ModeReplace {
			if err := m.clear(ctx, universe.ID); err != nil {
				return err
			}
		}
		c, err := m.write(ctx, universe.ID, tree)
		if err != nil {
			return err
		}
		counts = c
		return nil
	})
	if err != nil {
		metrics.MaterializationTotal.WithLabelValues(string(mode), "error").Inc()
		logger.Error(ctx, "materialization rolled back", err,
			"universe_id", universe.ID,
			"mode", string(mode),
		)
		if apperrors.Is(err, apperrors.ErrPersistence) {
			return nil, err
		}
		return nil, apperrors.Persistence(err)
	}

	metrics.MaterializationTotal.WithLabelValues(string(mode), "success").Inc()
	metrics.MaterializedBeats.Observe(float64(counts.Beats))
	return counts, nil
}

func (m *Materializer) saveUniverse(ctx context.Context, universe *entity.Universe, mode Mode) error {
	if err := universe.Validate(); err != nil {
		return fmt.Errorf("invalid universe: %w", err)
	}
	switch mode {
	case ModeCreate:
		return m.repos.Universes.Create(ctx, universe)
	case ModeReplace:
		if universe.ID == "" {
			return fmt.Errorf("replace requires an existing universe")
		}
		return m.repos.Universes.Update(ctx, universe)
	default:
		return fmt.Errorf("unknown materialization mode %q", mode)
	}
}

// clear 删除顺序：节拍、章节（含场景）、角色、地点
func (m *Materializer) clear(ctx context.Context, universeID string) error {
	if err := m.repos.Beats.DeleteByUniverse(ctx, universeID); err != nil {
		return err
	}
	if err := m.repos.Chapters.DeleteByUniverse(ctx, universeID); err != nil {
		return err
	}
	if err := m.repos.Characters.DeleteByUniverse(ctx, universeID); err != nil {
		return err
	}
	return m.repos.Locations.DeleteByUniverse(ctx, universeID)
}

func (m *Materializer) write(ctx context.Context, universeID string, tree *wfmodel.GenerationResult) (*MaterializedCounts, error) {
	counts := &MaterializedCounts{}

	for i, d := range tree.Characters {
		c := &entity.Character{
			UniverseID:  universeID,
			Name:        clampName(d.Name),
			Description: d.Description,
			Role:        clampLabel(d.Role),
			Position:    i + 1,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("character %d: %w", i+1, err)
		}
		if err := m.repos.Characters.Create(ctx, c); err != nil {
			return nil, err
		}
		counts.Characters++
	}

	for i, d := range tree.Locations {
		l := &entity.Location{
			UniverseID:   universeID,
			Name:         clampName(d.Name),
			Description:  d.Description,
			LocationType: clampLabel(d.LocationType),
			Position:     i + 1,
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("location %d: %w", i+1, err)
		}
		if err := m.repos.Locations.Create(ctx, l); err != nil {
			return nil, err
		}
		counts.Locations++
	}

	for i, chd := range tree.Chapters {
		ch := entity.NewChapter(universeID, clampName(chd.Name), chd.Description, i+1)
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i+1, err)
		}
		if err := m.repos.Chapters.Create(ctx, ch); err != nil {
			return nil, err
		}
		counts.Chapters++

		for j, scd := range chd.Scenes {
			sc := entity.NewScene(ch.ID, clampName(scd.Name), scd.Description, j+1)
			if err := sc.Validate(); err != nil {
				return nil, fmt.Errorf("chapter %d scene %d: %w", i+1, j+1, err)
			}
			if err := m.repos.Chapters.CreateScene(ctx, sc); err != nil {
				return nil, err
			}
			counts.Scenes++
		}
	}

	// 全局计数从 1 开始，每个节拍递增；模型给出的显式顺序优先
	order := 1
	for _, bd := range tree.FlattenBeats() {
		idx := order
		if bd.ExplicitOrder != nil {
			idx = *bd.ExplicitOrder
		}
		order++

		b := entity.NewBeat(universeID, clampName(bd.Title), bd.Description, idx)
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("beat %d: %w", counts.Beats+1, err)
		}
		if err := m.repos.Beats.Create(ctx, b); err != nil {
			return nil, err
		}
		counts.Beats++
	}

	return counts, nil
}

// clampName 模型输出的名称按列宽截断
func clampName(s string) string { return wfnode.TruncateByRunes(s, entity.NameMaxRunes) }

func clampLabel(s string) string { return wfnode.TruncateByRunes(s, entity.LabelMaxRunes) }
