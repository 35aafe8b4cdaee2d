package universe

import (
	"context"
	"testing"

	"mana-universe-api/internal/domain/entity"
	llmctx "mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/testutil"
	apperrors "mana-universe-api/pkg/errors"
)

func TestGenerateNewRequiresPrompt(t *testing.T) {
	f := newFixture(t)
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	_, err := f.svc.generator.Generate(context.Background(), GenerateRequest{ActingUserID: owner.ID, Prompt: "   "})
	if !apperrors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestGenerateResolvesTemplateAndModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	custom := entity.NewPromptTemplate(owner.ID, "Noir", "Noir: {USER_PROMPT}", "qwen/qwen3-coder")
	if err := f.tpls.Create(ctx, custom); err != nil {
		t.Fatalf("seed template: %v", err)
	}

	gen, err := f.svc.generator.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, Prompt: "a heist", TemplateID: custom.ID})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	in := f.runner.last()
	if in.Template != "Noir: {USER_PROMPT}" || in.ModelID != "qwen/qwen3-coder" || in.Workflow != llmctx.WorkflowUniverseGenerate {
		t.Fatalf("unexpected chain input %+v", in)
	}
	if gen.TemplateID != custom.ID || gen.UniverseID != "" {
		t.Fatalf("unexpected generation %+v", gen)
	}

	if _, err := f.svc.generator.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, Prompt: "a heist", ModelID: "x-ai/grok-4-fast", TemplateID: custom.ID}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.runner.last().ModelID != "x-ai/grok-4-fast" {
		t.Fatalf("request model should win over template model")
	}

	other := testutil.SeedUser(t, f.db, "other@example.com")
	if _, err := f.svc.generator.Generate(ctx, GenerateRequest{ActingUserID: other.ID, Prompt: "x", TemplateID: custom.ID}); !apperrors.Is(err, apperrors.ErrTemplateNotFound) {
		t.Fatalf("foreign template err = %v", err)
	}
}

func TestRegenerateFallsBackToUniverseNamePrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	viewer := testutil.SeedUser(t, f.db, "viewer@example.com")

	u := entity.NewUniverse(owner.ID, "Glass Harbor", "")
	if err := f.repos.Universes.Create(ctx, u); err != nil {
		t.Fatalf("seed universe: %v", err)
	}
	testutil.SeedShare(t, f.db, u.ID, viewer.ID, entity.PermissionView)

	gen, err := f.svc.generator.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, UniverseID: u.ID})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	in := f.runner.last()
	if in.UserPrompt != "Regenerate content for universe: Glass Harbor" || in.Workflow != llmctx.WorkflowUniverseRegenerate {
		t.Fatalf("unexpected chain input %+v", in)
	}
	if gen.UniverseID != u.ID || in.ModelID != "x-ai/grok-4-fast" {
		t.Fatalf("unexpected generation %+v / model %q", gen, in.ModelID)
	}

	calls := len(f.runner.inputs)
	if _, err := f.svc.generator.Generate(ctx, GenerateRequest{ActingUserID: viewer.ID, UniverseID: u.ID}); !apperrors.Is(err, apperrors.ErrAuthorizationDenied) {
		t.Fatalf("viewer regenerate = %v", err)
	}
	if len(f.runner.inputs) != calls {
		t.Fatalf("model must not be called for unauthorized users")
	}
}

func TestRegenerateSavesWithoutOverwritingPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")
	u := testutil.SeedUniverse(t, f.db, owner.ID, "Glass Harbor")
	u.Prompt = ""
	if err := f.repos.Universes.Update(ctx, u); err != nil {
		t.Fatalf("clear prompt: %v", err)
	}

	draft, err := f.svc.Generate(ctx, GenerateRequest{ActingUserID: owner.ID, UniverseID: u.ID})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res, err := f.svc.SaveDraft(ctx, owner.ID, u.ID, draft.ID, "")
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if res.Universe.Prompt != "" {
		t.Fatalf("synthesized regenerate prompt should not be stored, got %q", res.Universe.Prompt)
	}
}
