package universe

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/infrastructure/persistence/postgres"
	"mana-universe-api/internal/testutil"
	wfmodel "mana-universe-api/internal/workflow/model"
	apperrors "mana-universe-api/pkg/errors"
)

func TestMaterializeCreateAssignsGlobalBeatOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	u := entity.NewUniverse(owner.ID, "Drowned", "a sunken city")
	counts, err := f.material.Materialize(ctx, u, sampleTree(), ModeCreate)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	want := MaterializedCounts{Characters: 1, Locations: 1, Chapters: 2, Scenes: 3, Beats: 4}
	if *counts != want {
		t.Fatalf("counts = %+v, want %+v", *counts, want)
	}

	beats, err := f.repos.Beats.ListByUniverse(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUniverse: %v", err)
	}
	wantTitles := []string{"b1", "b2", "b3", "Hall"}
	if len(beats) != len(wantTitles) {
		t.Fatalf("got %d beats, want %d", len(beats), len(wantTitles))
	}
	for i, b := range beats {
		if b.OrderIndex != i+1 || b.Title != wantTitles[i] {
			t.Fatalf("beat %d = (%d, %q), want (%d, %q)", i, b.OrderIndex, b.Title, i+1, wantTitles[i])
		}
	}

	chapters, err := f.repos.Chapters.ListByUniverse(ctx, u.ID)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 2 || chapters[0].Name != "Descent" || chapters[1].Position != 2 {
		t.Fatalf("unexpected chapters %+v", chapters)
	}
}

func TestMaterializeExplicitOrderOverridesCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	tree := &wfmodel.GenerationResult{
		Title: "Ordered",
		Chapters: []wfmodel.ChapterDraft{{Name: "Chapter 1", Scenes: []wfmodel.SceneDraft{{
			Name: "Scene 1",
			Beats: []wfmodel.BeatDraft{
				{Title: "first", Description: "one"},
				{Title: "pinned", Description: "two", ExplicitOrder: intPtr(10)},
				{Title: "third", Description: "three"},
			},
		}}}},
	}
	u := entity.NewUniverse(owner.ID, "Ordered", "")
	if _, err := f.material.Materialize(ctx, u, tree, ModeCreate); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	beats, err := f.repos.Beats.ListByUniverse(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUniverse: %v", err)
	}
	got := map[string]int{}
	for _, b := range beats {
		got[b.Title] = b.OrderIndex
	}
	if got["first"] != 1 || got["pinned"] != 10 || got["third"] != 3 {
		t.Fatalf("order indexes = %v", got)
	}
}

func TestMaterializeReplaceIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	u := entity.NewUniverse(owner.ID, "Original", "premise")
	if _, err := f.material.Materialize(ctx, u, sampleTree(), ModeCreate); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	charsBefore, _ := f.repos.Characters.ListByUniverse(ctx, u.ID)
	locsBefore, _ := f.repos.Locations.ListByUniverse(ctx, u.ID)
	if len(charsBefore) != 1 || len(locsBefore) != 1 {
		t.Fatalf("seed cast = %d characters, %d locations", len(charsBefore), len(locsBefore))
	}

	failing := &failingBeats{BeatRepository: postgres.NewBeatRepository(f.client), failOn: 2}
	repos := f.repos
	repos.Beats = failing
	m := NewMaterializer(postgres.NewTxManager(f.client), repos)

	replacement := &wfmodel.GenerationResult{
		Title: "Replacement",
		Chapters: []wfmodel.ChapterDraft{{Name: "New", Scenes: []wfmodel.SceneDraft{{
			Name: "Only",
			Beats: []wfmodel.BeatDraft{
				{Description: "x"}, {Description: "y"}, {Description: "z"},
			},
		}}}},
	}
	u.Name = "Replacement"
	_, err := m.Materialize(ctx, u, replacement, ModeReplace)
	if !apperrors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("Materialize err = %v, want ErrPersistence", err)
	}
	if failing.calls != 2 {
		t.Fatalf("expected the third beat never to be attempted, calls = %d", failing.calls)
	}

	beats, err := f.repos.Beats.ListByUniverse(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUniverse: %v", err)
	}
	if len(beats) != 4 || beats[0].Title != "b1" {
		t.Fatalf("original beats should be intact, got %d", len(beats))
	}
	chapters, _ := f.repos.Chapters.ListByUniverse(ctx, u.ID)
	if len(chapters) != 2 || chapters[0].Name != "Descent" {
		t.Fatalf("original chapters should be intact, got %+v", chapters)
	}
	chars, _ := f.repos.Characters.ListByUniverse(ctx, u.ID)
	if len(chars) != 1 || chars[0].ID != charsBefore[0].ID || chars[0].Name != "Mara" || chars[0].Role != "diver" {
		t.Fatalf("original characters should be intact, got %+v", chars)
	}
	locs, _ := f.repos.Locations.ListByUniverse(ctx, u.ID)
	if len(locs) != 1 || locs[0].ID != locsBefore[0].ID || locs[0].Name != "The Bell" || locs[0].LocationType != "ruin" {
		t.Fatalf("original locations should be intact, got %+v", locs)
	}
	stored, _ := f.repos.Universes.GetByID(ctx, u.ID)
	if stored.Name != "Original" {
		t.Fatalf("universe name = %q, want rollback to Original", stored.Name)
	}
}

func TestMaterializeClampsOversizedModelText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	long := strings.Repeat("潮", 300)
	tree := &wfmodel.GenerationResult{
		Characters: []wfmodel.CharacterDraft{{Name: long, Role: strings.Repeat("r", 200)}},
		Locations:  []wfmodel.LocationDraft{{Name: long, LocationType: strings.Repeat("t", 200)}},
		Chapters: []wfmodel.ChapterDraft{{Name: long, Scenes: []wfmodel.SceneDraft{{
			Name:  long,
			Beats: []wfmodel.BeatDraft{{Title: long, Description: "kept"}},
		}}}},
	}
	u := entity.NewUniverse(owner.ID, "Clamped", "")
	if _, err := f.material.Materialize(ctx, u, tree, ModeCreate); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	runes := utf8.RuneCountInString
	chars, _ := f.repos.Characters.ListByUniverse(ctx, u.ID)
	if len(chars) != 1 {
		t.Fatalf("characters = %d", len(chars))
	}
	if runes(chars[0].Name) != entity.NameMaxRunes || runes(chars[0].Role) != entity.LabelMaxRunes {
		t.Fatalf("character not clamped: %d/%d", runes(chars[0].Name), runes(chars[0].Role))
	}
	locs, _ := f.repos.Locations.ListByUniverse(ctx, u.ID)
	if len(locs) != 1 || runes(locs[0].LocationType) != entity.LabelMaxRunes {
		t.Fatalf("location not clamped: %+v", locs)
	}
	chapters, _ := f.repos.Chapters.ListByUniverse(ctx, u.ID)
	if len(chapters) != 1 || runes(chapters[0].Name) != entity.NameMaxRunes {
		t.Fatalf("chapter not clamped")
	}
	beats, _ := f.repos.Beats.ListByUniverse(ctx, u.ID)
	if len(beats) != 1 || runes(beats[0].Title) != entity.NameMaxRunes || beats[0].Description != "kept" {
		t.Fatalf("beat not clamped: %+v", beats)
	}
}

func TestMaterializeRejectsMissingRequiredFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, f.db, "owner@example.com")

	tree := sampleTree()
	tree.Characters = append(tree.Characters, wfmodel.CharacterDraft{Name: "  "})

	u := entity.NewUniverse(owner.ID, "Invalid", "")
	_, err := f.material.Materialize(ctx, u, tree, ModeCreate)
	if !apperrors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	var n int64
	f.db.Model(&entity.Universe{}).Count(&n)
	if n != 0 {
		t.Fatalf("universe row should be rolled back, found %d", n)
	}
}
