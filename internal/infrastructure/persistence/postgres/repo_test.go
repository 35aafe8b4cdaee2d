package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/testutil"
)

func TestUniverseListAccessibleIncludesShared(t *testing.T) {
	db := testutil.DB(t)
	client := NewClientWithDB(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	guest := testutil.SeedUser(t, db, "guest@example.com")
	stranger := testutil.SeedUser(t, db, "stranger@example.com")

	mine := testutil.SeedUniverse(t, db, owner.ID, "Mine")
	testutil.SeedUniverse(t, db, stranger.ID, "Theirs")
	testutil.SeedShare(t, db, mine.ID, guest.ID, entity.PermissionView)

	repo := NewUniverseRepository(client)
	res, err := repo.ListAccessible(ctx, guest.ID, repository.NewPagination(1, 10))
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}
	if res.Total != 1 || len(res.Items) != 1 || res.Items[0].ID != mine.ID {
		t.Fatalf("guest should see only the shared universe, got %+v", res.Items)
	}

	res, err = repo.ListAccessible(ctx, stranger.ID, repository.NewPagination(1, 10))
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}
	if res.Total != 1 || res.Items[0].Name != "Theirs" {
		t.Fatalf("stranger should see only their own universe, got %+v", res.Items)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	client := NewClientWithDB(db)
	tx := NewTxManager(client)
	beats := NewBeatRepository(client)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	u := testutil.SeedUniverse(t, db, owner.ID, "Rollback")

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := beats.Create(ctx, entity.NewBeat(u.ID, "", "first", 1)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction error = %v, want boom", err)
	}

	got, err := beats.ListByUniverse(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUniverse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected rollback to discard beats, found %d", len(got))
	}
}

func TestChapterDeleteByUniverseRemovesScenes(t *testing.T) {
	db := testutil.DB(t)
	client := NewClientWithDB(db)
	chapters := NewChapterRepository(client)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	a := testutil.SeedUniverse(t, db, owner.ID, "A")
	b := testutil.SeedUniverse(t, db, owner.ID, "B")

	chA := entity.NewChapter(a.ID, "Chapter 1", "", 1)
	chB := entity.NewChapter(b.ID, "Chapter 1", "", 1)
	for _, ch := range []*entity.Chapter{chA, chB} {
		if err := chapters.Create(ctx, ch); err != nil {
			t.Fatalf("create chapter: %v", err)
		}
		if err := chapters.CreateScene(ctx, entity.NewScene(ch.ID, "Scene 1", "", 1)); err != nil {
			t.Fatalf("create scene: %v", err)
		}
	}

	if err := chapters.DeleteByUniverse(ctx, a.ID); err != nil {
		t.Fatalf("DeleteByUniverse: %v", err)
	}

	scenes, err := chapters.ListScenes(ctx, []string{chA.ID, chB.ID})
	if err != nil {
		t.Fatalf("ListScenes: %v", err)
	}
	if len(scenes) != 1 || scenes[0].ChapterID != chB.ID {
		t.Fatalf("expected only universe B scene to survive, got %+v", scenes)
	}
}

func TestPromptTemplateGetDefaultPrefersFlag(t *testing.T) {
	db := testutil.DB(t)
	client := NewClientWithDB(db)
	repo := NewPromptTemplateRepository(client)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	testutil.SeedTemplate(t, db, owner.ID, "first {USER_PROMPT}")
	flagged := entity.NewPromptTemplate(owner.ID, "Flagged", "second {USER_PROMPT}", "")
	flagged.IsDefault = true
	if err := repo.Create(ctx, flagged); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetDefault(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if got == nil || got.ID != flagged.ID {
		t.Fatalf("GetDefault = %+v, want flagged template", got)
	}

	none, err := repo.GetDefault(ctx, "00000000-0000-0000-0000-000000000000")
	if err != nil || none != nil {
		t.Fatalf("GetDefault for unknown user = %+v, %v", none, err)
	}
}

func TestAuditEventAppendIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	repo := NewAuditEventRepository(NewClientWithDB(db))
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	u := testutil.SeedUniverse(t, db, owner.ID, "Audited")

	event := func(msgID string, savedAt time.Time) *entity.AuditEvent {
		return &entity.AuditEvent{MessageID: msgID, UniverseID: u.ID, UserID: owner.ID, Mode: "create", SavedAt: savedAt}
	}

	base := time.Now().Add(-time.Hour)
	inserted, err := repo.Append(ctx, event("m-1", base))
	if err != nil || !inserted {
		t.Fatalf("first append: inserted=%v err=%v", inserted, err)
	}
	inserted, err = repo.Append(ctx, event("m-1", base))
	if err != nil || inserted {
		t.Fatalf("duplicate append: inserted=%v err=%v", inserted, err)
	}
	if _, err := repo.Append(ctx, event("m-2", base.Add(time.Minute))); err != nil {
		t.Fatalf("second append: %v", err)
	}

	events, err := repo.ListByUniverse(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("ListByUniverse: %v", err)
	}
	if len(events) != 2 || events[0].MessageID != "m-2" {
		t.Fatalf("expected newest first, got %+v", events)
	}
}
