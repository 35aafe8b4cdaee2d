package universe

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/domain/service"
	wfmodel "mana-universe-api/internal/workflow/model"
	wfnode "mana-universe-api/internal/workflow/node"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// DraftStore 暂存未保存的生成结果
type DraftStore interface {
	Put(ctx context.Context, draft *wfmodel.Draft) error
	Get(ctx context.Context, userID, draftID string) (*wfmodel.Draft, error)
	Delete(ctx context.Context, userID, draftID string) error
}

// ContentCache 内容读缓存
type ContentCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// SaveRequest 保存请求，UniverseID 为空时新建
type SaveRequest struct {
	ActingUserID string
	UniverseID   string
	Name         string
	Result       *wfmodel.GenerationResult
	TemplateID   string
}

// SaveResult 保存结果
type SaveResult struct {
	Universe *entity.Universe    `json:"universe"`
	Counts   *MaterializedCounts `json:"counts"`
	Created  bool                `json:"created"`
}

// View 宇宙及调用者权限
type View struct {
	Universe   *entity.Universe
	Permission access.Permission
}

// ChapterContent 章节及其场景
type ChapterContent struct {
	Chapter *entity.Chapter `json:"chapter"`
	Scenes  []*entity.Scene `json:"scenes"`
}

// Content 已保存的内容树
type Content struct {
	Characters []*entity.Character `json:"characters"`
	Locations  []*entity.Location  `json:"locations"`
	Chapters   []ChapterContent    `json:"chapters"`
	Beats      []*entity.Beat      `json:"beats"`
}

// Options 可选依赖
type Options struct {
	Locker   service.UniverseLocker
	Audit    service.AuditPublisher
	Cache    ContentCache
	CacheTTL time.Duration
}

// Service 宇宙应用服务
type Service struct {
	tx           repository.Transactor
	repos        ContentRepos
	shares       repository.UniverseShareRepository
	gate         *access.Gate
	generator    *Generator
	materializer *Materializer
	drafts       DraftStore
	opts         Options
}

// NewService 创建宇宙服务
func NewService(
	tx repository.Transactor,
	repos ContentRepos,
	shares repository.UniverseShareRepository,
	gate *access.Gate,
	generator *Generator,
	materializer *Materializer,
	drafts DraftStore,
	opts Options,
) *Service {
	return &Service{
		tx:           tx,
		repos:        repos,
		shares:       shares,
		gate:         gate,
		generator:    generator,
		materializer: materializer,
		drafts:       drafts,
		opts:         opts,
	}
}

// Generate 生成内容并暂存为草稿
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*wfmodel.Draft, error) {
	gen, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	draft := &wfmodel.Draft{
		UserID:     req.ActingUserID,
		UniverseID: gen.UniverseID,
		TemplateID: gen.TemplateID,
		Result:     gen.Result,
	}
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	logger.Info(logger.WithContext(ctx, logger.DraftIDKey, draft.ID), "generation draft stored")
	return draft, nil
}

// SaveDraft 保存草稿，成功后删除草稿
func (s *Service) SaveDraft(ctx context.Context, userID, universeID, draftID, name string) (*SaveResult, error) {
	ctx = logger.WithContext(ctx, logger.DraftIDKey, draftID)
	draft, err := s.drafts.Get(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UniverseID != universeID {
		return nil, apperrors.ErrInvalidParam.WithDetail("draft was generated for a different universe")
	}

	res, err := s.Save(ctx, SaveRequest{
		ActingUserID: userID,
		UniverseID:   universeID,
		Name:         name,
		Result:       draft.Result,
		TemplateID:   draft.TemplateID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, userID, draftID); err != nil {
		logger.Warn(ctx, "failed to delete saved draft", "error", err.Error())
	}
	return res, nil
}

// Save 将内容树写入新宇宙或整体替换已有宇宙的内容
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	tree := req.Result
	if tree == nil {
		return nil, apperrors.ErrInvalidParam.WithDetail("result is required")
	}

	var (
		u    *entity.Universe
		mode Mode
	)
	if req.UniverseID == "" {
		name := firstNonBlank(req.Name, tree.Title, wfnode.FallbackTitle(tree.Prompt))
		u = entity.NewUniverse(req.ActingUserID, clampName(name), tree.Prompt)
		u.Model = clampLabel(tree.Model)
		mode = ModeCreate
	} else {
		existing, err := s.repos.Universes.GetByID(ctx, req.UniverseID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.ErrUniverseNotFound
		}
		if err := s.gate.RequireEdit(ctx, existing, req.ActingUserID); err != nil {
			return nil, err
		}
		u = existing
		if tree.Prompt != "" && tree.Prompt != RegeneratePrompt(existing.Name) {
			u.Prompt = tree.Prompt
		}
		if tree.Model != "" {
			u.Model = clampLabel(tree.Model)
		}
		u.Name = clampName(firstNonBlank(req.Name, tree.Title, u.Name))
		mode = ModeReplace
		ctx = logger.WithContext(ctx, logger.UniverseIDKey, u.ID)

		if s.opts.Locker != nil {
			unlock, err := s.opts.Locker.Lock(ctx, u.ID)
			if err != nil {
				return nil, err
			}
			defer unlock(context.WithoutCancel(ctx))
		}
	}
	if req.TemplateID != "" {
		// 编辑者保存所有者模板生成的草稿时，模板属于宇宙所有者
		tpl, err := s.generator.ownedTemplate(ctx, req.TemplateID, req.ActingUserID, u.UserID)
		if err != nil {
			return nil, err
		}
		u.PromptTemplateID = &tpl.ID
	}

	counts, err := s.materializer.Materialize(ctx, u, tree, mode)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, u.ID)
	s.publish(ctx, u, tree, mode, req.ActingUserID, counts)

	logger.Info(ctx, "universe saved",
		"universe_id", u.ID,
		"mode", string(mode),
		"chapters", counts.Chapters,
		"beats", counts.Beats,
	)
	return &SaveResult{Universe: u, Counts: counts, Created: mode == ModeCreate}, nil
}

// Get 获取宇宙，需要读权限
func (s *Service) Get(ctx context.Context, userID, universeID string) (*View, error) {
	u, err := s.repos.Universes.GetByID(ctx, universeID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUniverseNotFound
	}
	p, err := s.gate.PermissionFor(ctx, u, userID)
	if err != nil {
		return nil, err
	}
	if !p.CanView() {
		return nil, apperrors.ErrAuthorizationDenied
	}
	return &View{Universe: u, Permission: p}, nil
}

// ListAccessible 列出用户拥有或被共享的宇宙
func (s *Service) ListAccessible(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Universe], error) {
	return s.repos.Universes.ListAccessible(ctx, userID, pagination)
}

// Delete 删除宇宙及其全部内容与共享，仅所有者可操作
func (s *Service) Delete(ctx context.Context, userID, universeID string) error {
	u, err := s.repos.Universes.GetByID(ctx, universeID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperrors.ErrUniverseNotFound
	}
	if !u.IsOwnedBy(userID) {
		return apperrors.ErrAuthorizationDenied
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Beats.DeleteByUniverse(ctx, u.ID); err != nil {
			return err
		}
		if err := s.repos.Chapters.DeleteByUniverse(ctx, u.ID); err != nil {
			return err
		}
		if err := s.repos.Characters.DeleteByUniverse(ctx, u.ID); err != nil {
			return err
		}
		if err := s.repos.Locations.DeleteByUniverse(ctx, u.ID); err != nil {
			return err
		}
		if err := s.shares.DeleteByUniverse(ctx, u.ID); err != nil {
			return err
		}
		return s.repos.Universes.Delete(ctx, u.ID)
	})
	if err != nil {
		return apperrors.Persistence(err)
	}

	s.invalidate(ctx, u.ID)
	logger.Info(ctx, "universe deleted", "universe_id", u.ID)
	return nil
}

// Content 读取已保存的内容树，需要读权限
func (s *Service) Content(ctx context.Context, userID, universeID string) (*View, *Content, error) {
	view, err := s.Get(ctx, userID, universeID)
	if err != nil {
		return nil, nil, err
	}

	if s.opts.Cache == nil {
		c, err := s.loadContent(ctx, universeID)
		return view, c, err
	}

	raw, err := s.opts.Cache.GetOrLoadSafe(ctx, contentKey(universeID), s.opts.CacheTTL, func() (interface{}, error) {
		return s.loadContent(ctx, universeID)
	})
	if err != nil {
		return nil, nil, err
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		logger.Warn(ctx, "cached content unreadable, loading from database", "error", err.Error())
		fresh, err := s.loadContent(ctx, universeID)
		return view, fresh, err
	}
	return view, &c, nil
}

func (s *Service) loadContent(ctx context.Context, universeID string) (*Content, error) {
	characters, err := s.repos.Characters.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, err
	}
	locations, err := s.repos.Locations.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.repos.Chapters.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}
	scenes, err := s.repos.Chapters.ListScenes(ctx, ids)
	if err != nil {
		return nil, err
	}
	byChapter := make(map[string][]*entity.Scene, len(chapters))
	for _, sc := range scenes {
		byChapter[sc.ChapterID] = append(byChapter[sc.ChapterID], sc)
	}

	beats, err := s.repos.Beats.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, err
	}

	out := &Content{
		Characters: characters,
		Locations:  locations,
		Chapters:   make([]ChapterContent, 0, len(chapters)),
		Beats:      beats,
	}
	for _, ch := range chapters {
		out.Chapters = append(out.Chapters, ChapterContent{Chapter: ch, Scenes: byChapter[ch.ID]})
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, universeID string) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Delete(ctx, contentKey(universeID)); err != nil {
		logger.Warn(ctx, "failed to invalidate content cache", "universe_id", universeID, "error", err.Error())
	}
}

// publish 提交后发布审计事件，失败只记录日志
func (s *Service) publish(ctx context.Context, u *entity.Universe, tree *wfmodel.GenerationResult, mode Mode, userID string, counts *MaterializedCounts) {
	if s.opts.Audit == nil {
		return
	}
	event := &service.UniverseSavedEvent{
		UniverseID: u.ID,
		UserID:     userID,
		Mode:       string(mode),
		Model:      u.Model,
		Shape:      string(tree.Shape),
		Characters: counts.Characters,
		Locations:  counts.Locations,
		Chapters:   counts.Chapters,
		Scenes:     counts.Scenes,
		Beats:      counts.Beats,
		SavedAt:    time.Now().UTC(),
	}
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		event.RequestID = reqID
	}
	if err := s.opts.Audit.PublishUniverseSaved(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish audit event", "universe_id", u.ID, "error", err.Error())
	}
}

func contentKey(universeID string) string {
	return "content:" + universeID
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
