package universe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/infrastructure/persistence/postgres"
	"mana-universe-api/internal/testutil"
	"mana-universe-api/internal/workflow/chain"
	wfmodel "mana-universe-api/internal/workflow/model"
	apperrors "mana-universe-api/pkg/errors"
)

type fixture struct {
	db       *gorm.DB
	client   *postgres.Client
	repos    ContentRepos
	shares   *postgres.UniverseShareRepository
	tpls     *postgres.PromptTemplateRepository
	gate     *access.Gate
	material *Materializer
	drafts   *memDrafts
	audit    *recordingAudit
	runner   *stubRunner
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	client := postgres.NewClientWithDB(db)
	tx := postgres.NewTxManager(client)

	f := &fixture{
		db:     db,
		client: client,
		repos: ContentRepos{
			Universes:  postgres.NewUniverseRepository(client),
			Characters: postgres.NewCharacterRepository(client),
			Locations:  postgres.NewLocationRepository(client),
			Chapters:   postgres.NewChapterRepository(client),
			Beats:      postgres.NewBeatRepository(client),
		},
		shares: postgres.NewUniverseShareRepository(client),
		tpls:   postgres.NewPromptTemplateRepository(client),
		drafts: &memDrafts{items: map[string]*wfmodel.Draft{}},
		audit:  &recordingAudit{},
		runner: &stubRunner{},
	}
	f.gate = access.NewGate(f.shares)
	f.material = NewMaterializer(tx, f.repos)
	gen := NewGenerator(f.repos.Universes, f.tpls, &userTemplates{repo: f.tpls}, f.gate, f.runner, staticModels{})
	f.svc = NewService(tx, f.repos, f.shares, f.gate, gen, f.material, f.drafts, Options{Audit: f.audit})
	return f
}

func intPtr(v int) *int { return &v }

// sampleTree 两章三场景，其中一个场景没有节拍只有描述
func sampleTree() *wfmodel.GenerationResult {
	return &wfmodel.GenerationResult{
		Title:       "The Drowned City",
		Description: "A city beneath the tide.",
		Prompt:      "a sunken city",
		Model:       "x-ai/grok-4-fast",
		Shape:       wfmodel.ShapeNested,
		Characters:  []wfmodel.CharacterDraft{{Name: "Mara", Role: "diver"}},
		Locations:   []wfmodel.LocationDraft{{Name: "The Bell", LocationType: "ruin"}},
		Chapters: []wfmodel.ChapterDraft{
			{Name: "Descent", Scenes: []wfmodel.SceneDraft{
				{Name: "Dock", Beats: []wfmodel.BeatDraft{
					{Title: "b1", Description: "Mara checks her gear."},
					{Title: "b2", Description: "The rope snaps."},
				}},
			}},
			{Name: "Below", Scenes: []wfmodel.SceneDraft{
				{Name: "Gate", Beats: []wfmodel.BeatDraft{{Title: "b3", Description: "A door opens."}}},
				{Name: "Hall", Description: "Silence fills the hall."},
			}},
		},
	}
}

type stubRunner struct {
	mu     sync.Mutex
	inputs []*chain.GenerateInput
	result *wfmodel.GenerationResult
	err    error
}

func (r *stubRunner) Invoke(_ context.Context, in *chain.GenerateInput) (*wfmodel.GenerationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, in)
	if r.err != nil {
		return nil, r.err
	}
	res := sampleTree()
	if r.result != nil {
		res = r.result
	}
	cp := *res
	cp.Prompt = in.UserPrompt
	cp.Model = in.ModelID
	return &cp, nil
}

func (r *stubRunner) last() *chain.GenerateInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.inputs) == 0 {
		return nil
	}
	return r.inputs[len(r.inputs)-1]
}

type staticModels struct{}

func (staticModels) Default() string { return "x-ai/grok-4-fast" }

// userTemplates 只在测试中使用的最小模板来源
type userTemplates struct {
	repo *postgres.PromptTemplateRepository
}

func (u *userTemplates) Get(ctx context.Context, userID, id string) (*entity.PromptTemplate, error) {
	tpl, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || tpl.UserID != userID {
		return nil, apperrors.ErrTemplateNotFound
	}
	return tpl, nil
}

func (u *userTemplates) EnsureDefault(ctx context.Context, userID string) (*entity.PromptTemplate, error) {
	tpl, err := u.repo.GetDefault(ctx, userID)
	if err != nil || tpl != nil {
		return tpl, err
	}
	tpl = entity.NewPromptTemplate(userID, "Default", "Default: {USER_PROMPT}", "")
	tpl.IsDefault = true
	return tpl, u.repo.Create(ctx, tpl)
}

type memDrafts struct {
	mu    sync.Mutex
	items map[string]*wfmodel.Draft
	seq   int
}

func (m *memDrafts) Put(_ context.Context, d *wfmodel.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if d.ID == "" {
		d.ID = fmt.Sprintf("draft-%d", m.seq)
	}
	m.items[d.UserID+":"+d.ID] = d
	return nil
}

func (m *memDrafts) Get(_ context.Context, userID, id string) (*wfmodel.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[userID+":"+id]
	if !ok {
		return nil, apperrors.ErrDraftNotFound
	}
	return d, nil
}

func (m *memDrafts) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID+":"+id)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []*service.UniverseSavedEvent
	err    error
}

func (r *recordingAudit) PublishUniverseSaved(_ context.Context, e *service.UniverseSavedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

// failingBeats 第 failOn 次创建时失败
type failingBeats struct {
	*postgres.BeatRepository
	calls  int
	failOn int
}

func (f *failingBeats) Create(ctx context.Context, beat *entity.Beat) error {
	f.calls++
	if f.calls == f.failOn {
		return errors.New("disk full")
	}
	return f.BeatRepository.Create(ctx, beat)
}
