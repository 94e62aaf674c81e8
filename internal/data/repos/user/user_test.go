package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{Email: "userrepo@example.com", PasswordHash: "pw"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 || created[0].Joined.IsZero() {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []int64{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(ctx, tx, []string{created[0].Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != created[0].Email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	exists, err := repo.EmailExists(ctx, tx, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatalf("EmailExists: expected false")
	}

	in, err := repo.InGroup(ctx, tx, created[0].ID, "output")
	if err != nil || in {
		t.Fatalf("InGroup before membership: in=%v err=%v", in, err)
	}
	testutil.SeedGroup(t, ctx, tx, "output", created[0].ID)
	in, err = repo.InGroup(ctx, tx, created[0].ID, "output")
	if err != nil || !in {
		t.Fatalf("InGroup after membership: in=%v err=%v", in, err)
	}
}

func TestSessionRepoExpiry(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSessionRepo(db, testutil.Logger(t))
	ctx := context.Background()
	now := time.Now().UTC()

	live := &types.Session{UserID: 1, Started: now, LastSeen: now, ExpiresAt: now.Add(time.Hour)}
	stale := &types.Session{UserID: 1, Started: now, LastSeen: now, ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []*types.Session{live, stale} {
		if err := repo.Create(ctx, tx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if live.ID == uuid.Nil {
		t.Fatal("Create did not assign an id")
	}

	n, err := repo.DeleteExpired(ctx, tx, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}
	if got, err := repo.Get(ctx, tx, stale.ID); err != nil || got != nil {
		t.Fatalf("expired session survived: %+v err=%v", got, err)
	}
	got, err := repo.Get(ctx, tx, live.ID)
	if err != nil || got == nil {
		t.Fatalf("live session missing: err=%v", err)
	}

	if err := repo.Delete(ctx, tx, live.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(ctx, tx, live.ID); got != nil {
		t.Fatal("deleted session still present")
	}
}
