package audit

import (
	"context"
	"testing"
	"time"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/infrastructure/persistence/postgres"
	"mana-universe-api/internal/testutil"
	apperrors "mana-universe-api/pkg/errors"
)

func TestArchiveAndHistory(t *testing.T) {
	db := testutil.DB(t)
	client := postgres.NewClientWithDB(db)
	events := postgres.NewAuditEventRepository(client)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	viewer := testutil.SeedUser(t, db, "viewer@example.com")
	stranger := testutil.SeedUser(t, db, "stranger@example.com")
	u := testutil.SeedUniverse(t, db, owner.ID, "Archive")
	testutil.SeedShare(t, db, u.ID, viewer.ID, entity.PermissionView)

	archiver := NewArchiver(events)
	event := &service.UniverseSavedEvent{
		UniverseID: u.ID,
		UserID:     owner.ID,
		Mode:       "replace",
		Chapters:   2,
		Beats:      5,
		SavedAt:    time.Now(),
	}
	for i := 0; i < 2; i++ {
		if err := archiver.Archive(ctx, "msg-1", event); err != nil {
			t.Fatalf("Archive attempt %d: %v", i, err)
		}
	}
	if err := archiver.Archive(ctx, "", event); !apperrors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam for missing message id, got %v", err)
	}

	history := NewHistory(postgres.NewUniverseRepository(client), events, access.NewGate(postgres.NewUniverseShareRepository(client)))

	got, err := history.List(ctx, viewer.ID, u.ID, 0)
	if err != nil {
		t.Fatalf("List as viewer: %v", err)
	}
	if len(got) != 1 || got[0].Beats != 5 || got[0].Mode != "replace" {
		t.Fatalf("unexpected history: %+v", got)
	}

	if _, err := history.List(ctx, stranger.ID, u.ID, 0); !apperrors.Is(err, apperrors.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if _, err := history.List(ctx, owner.ID, "00000000-0000-0000-0000-000000000000", 0); !apperrors.Is(err, apperrors.ErrUniverseNotFound) {
		t.Fatalf("expected ErrUniverseNotFound, got %v", err)
	}
}
