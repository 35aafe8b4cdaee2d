package universe

import (
	"context"
	"testing"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/testutil"
	apperrors "mana-universe-api/pkg/errors"
)

func TestSaveNewUniverseUsesTitleAndPublishesAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	res, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !res.Created || res.Universe.Name != "The Drowned City" || res.Universe.UserID != owner.ID {
		t.Fatalf("unexpected result %+v", res.Universe)
	}
	if res.Universe.Prompt != "a sunken city" || res.Universe.Model != "x-ai/grok-4-fast" {
		t.Fatalf("prompt/model not recorded: %+v", res.Universe)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Beats != 4 || f.audit.events[0].Mode != string(ModeCreate) {
		t.Fatalf("unexpected audit events %+v", f.audit.events)
	}
}

func TestSaveAuthorizationBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	viewer := testutil.SeedUser(t, f.db, "viewer@example.com")
	editor := testutil.SeedUser(t, f.db, "editor@example.com")
	stranger := testutil.SeedUser(t, f.db, "stranger@example.com")

	created, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	uid := created.Universe.ID
	testutil.SeedShare(t, f.db, uid, viewer.ID, entity.PermissionView)
	testutil.SeedShare(t, f.db, uid, editor.ID, entity.PermissionEdit)

	replacement := sampleTree()
	replacement.Title = "Rewritten"
	replacement.Chapters = replacement.Chapters[:1]

	for _, userID := range []string{viewer.ID, stranger.ID} {
		_, err := f.svc.Save(ctx, SaveRequest{ActingUserID: userID, UniverseID: uid, Result: replacement})
		if !apperrors.Is(err, apperrors.ErrAuthorizationDenied) {
			t.Fatalf("Save by %s = %v, want ErrAuthorizationDenied", userID, err)
		}
	}
	chapters, _ := f.repos.Chapters.ListByUniverse(ctx, uid)
	if len(chapters) != 2 {
		t.Fatalf("denied saves must not write, found %d chapters", len(chapters))
	}

	res, err := f.svc.Save(ctx, SaveRequest{ActingUserID: editor.ID, UniverseID: uid, Result: replacement})
	if err != nil {
		t.Fatalf("Save by editor: %v", err)
	}
	if res.Created || res.Universe.Name != "Rewritten" || res.Counts.Chapters != 1 {
		t.Fatalf("unexpected editor save %+v / %+v", res.Universe, res.Counts)
	}
	if res.Universe.UserID != owner.ID {
		t.Fatalf("ownership must not change on replace")
	}
}

func TestGetAndContentRespectViewPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	viewer := testutil.SeedUser(t, f.db, "viewer@example.com")
	stranger := testutil.SeedUser(t, f.db, "stranger@example.com")

	created, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	uid := created.Universe.ID
	testutil.SeedShare(t, f.db, uid, viewer.ID, entity.PermissionView)

	view, content, err := f.svc.Content(ctx, viewer.ID, uid)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if view.Permission != access.PermissionView {
		t.Fatalf("permission = %q", view.Permission)
	}
	if len(content.Chapters) != 2 || len(content.Chapters[1].Scenes) != 2 || len(content.Beats) != 4 {
		t.Fatalf("unexpected content %+v", content)
	}
	if content.Chapters[1].Scenes[0].Name != "Gate" {
		t.Fatalf("scenes out of order: %+v", content.Chapters[1].Scenes)
	}

	if _, err := f.svc.Get(ctx, stranger.ID, uid); !apperrors.Is(err, apperrors.ErrAuthorizationDenied) {
		t.Fatalf("Get by stranger = %v", err)
	}
	if _, err := f.svc.Get(ctx, owner.ID, "00000000-0000-0000-0000-000000000000"); !apperrors.Is(err, apperrors.ErrUniverseNotFound) {
		t.Fatalf("Get missing = %v", err)
	}

	list, err := f.svc.ListAccessible(ctx, viewer.ID, repository.NewPagination(1, 10))
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("viewer should see the shared universe, total = %d", list.Total)
	}
}

func TestDeleteIsOwnerOnlyAndCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	editor := testutil.SeedUser(t, f.db, "editor@example.com")

	created, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	uid := created.Universe.ID
	testutil.SeedShare(t, f.db, uid, editor.ID, entity.PermissionEdit)

	if err := f.svc.Delete(ctx, editor.ID, uid); !apperrors.Is(err, apperrors.ErrAuthorizationDenied) {
		t.Fatalf("Delete by editor = %v", err)
	}
	if err := f.svc.Delete(ctx, owner.ID, uid); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, model := range []any{&entity.Universe{}, &entity.Beat{}, &entity.Chapter{}, &entity.Scene{}, &entity.Character{}, &entity.Location{}, &entity.UniverseShare{}} {
		var n int64
		if err := f.db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 0 {
			t.Fatalf("%T rows left after delete: %d", model, n)
		}
	}
}

func TestGenerateThenSaveDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	draft, err := f.svc.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, Prompt: "a sunken city"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if draft.ID == "" || draft.TemplateID == "" || draft.Result == nil {
		t.Fatalf("incomplete draft %+v", draft)
	}

	var n int64
	f.db.Model(&entity.Universe{}).Count(&n)
	if n != 0 {
		t.Fatalf("Generate must not write universes")
	}

	res, err := f.svc.SaveDraft(ctx, owner.ID, "", draft.ID, "")
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if res.Universe.PromptTemplateID == nil || *res.Universe.PromptTemplateID != draft.TemplateID {
		t.Fatalf("template id not recorded on universe")
	}
	if _, err := f.svc.SaveDraft(ctx, owner.ID, "", draft.ID, ""); !apperrors.Is(err, apperrors.ErrDraftNotFound) {
		t.Fatalf("draft should be consumed, err = %v", err)
	}
}

func TestSaveDraftRejectsUniverseMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	draft, err := f.svc.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	u := testutil.SeedUniverse(t, f.db, owner.ID, "Other")
	if _, err := f.svc.SaveDraft(ctx, owner.ID, u.ID, draft.ID, ""); !apperrors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("SaveDraft mismatch = %v", err)
	}
}

func TestTemplateOwnershipOnSaveAndRegenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	editor := testutil.SeedUser(t, f.db, "editor@example.com")
	other := testutil.SeedUser(t, f.db, "other@example.com")

	foreign := entity.NewPromptTemplate(other.ID, "private", "secret style for {USER_PROMPT}", "")
	if err := f.tpls.Create(ctx, foreign); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ownerTpl := entity.NewPromptTemplate(owner.ID, "house", "house style for {USER_PROMPT}", "")
	if err := f.tpls.Create(ctx, ownerTpl); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree(), TemplateID: foreign.ID})
	if !apperrors.Is(err, apperrors.ErrTemplateNotFound) {
		t.Fatalf("Save with another user's template = %v, want ErrTemplateNotFound", err)
	}

	created, err := f.svc.Save(ctx, SaveRequest{ActingUserID: owner.ID, Result: sampleTree(), TemplateID: ownerTpl.ID})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	uid := created.Universe.ID
	testutil.SeedShare(t, f.db, uid, editor.ID, entity.PermissionEdit)

	// 编辑者可以用所有者的模板重新生成并保存
	draft, err := f.svc.Generate(ctx, GenerateRequest{ActingUserID: editor.ID, UniverseID: uid, Prompt: "again"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := f.runner.last().Template; got != ownerTpl.Content {
		t.Fatalf("editor template = %q, want owner's", got)
	}
	if _, err := f.svc.SaveDraft(ctx, editor.ID, uid, draft.ID, ""); err != nil {
		t.Fatalf("SaveDraft by editor: %v", err)
	}

	// 直接写入的外部模板在重新生成时被忽略
	if err := f.db.Model(&entity.Universe{}).Where("id = ?", uid).Update("prompt_template_id", foreign.ID).Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := f.svc.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, UniverseID: uid, Prompt: "again"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := f.runner.last().Template; got == foreign.Content {
		t.Fatalf("regeneration used another user's template")
	}
}
