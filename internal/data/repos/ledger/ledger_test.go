package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

func TestPendingItemRepoSingleSlot(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPendingItemRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "p@example.com")
	other := testutil.SeedUser(t, ctx, tx, "o@example.com")
	now := time.Now().UTC()

	if cur, err := repo.Current(dbc, u.ID); err != nil || cur != nil {
		t.Fatalf("Current on empty ledger: cur=%v err=%v", cur, err)
	}

	first := &types.PendingItem{UserID: u.ID, AudioFileID: 7, AskedDate: now}
	if err := repo.Create(dbc, first, Asked{Question: &types.QAskedData{QuestionID: 3, CorrectQAID: 11}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ItemType != types.ItemQuestion || !first.Pending {
		t.Fatalf("header not filled: %+v", first)
	}

	second := &types.PendingItem{UserID: u.ID, AudioFileID: 8, AskedDate: now}
	err := repo.Create(dbc, second, Asked{Word: &types.WAskedData{WordID: 1}})
	if !apierr.IsUniqueViolation(err) {
		t.Fatalf("second pending item: expected unique violation, got %v", err)
	}
	if n, _ := repo.CountPending(dbc, u.ID); n != 1 {
		t.Fatalf("expected exactly one pending item, got %d", n)
	}

	// another user's slot is independent
	if err := repo.Create(dbc, &types.PendingItem{UserID: other.ID, AudioFileID: 9, AskedDate: now}, Asked{Word: &types.WAskedData{WordID: 1}}); err != nil {
		t.Fatalf("Create for other user: %v", err)
	}

	cur, err := repo.Current(dbc, u.ID)
	if err != nil || cur == nil || cur.ID != first.ID {
		t.Fatalf("Current: cur=%v err=%v", cur, err)
	}
	asked, err := repo.LoadAsked(dbc, cur)
	if err != nil || asked.Question == nil || asked.Question.CorrectQAID != 11 {
		t.Fatalf("LoadAsked: %+v err=%v", asked, err)
	}

	if err := repo.Resolve(dbc, other.ID, first.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("Resolve by wrong user: expected ErrNotPending, got %v", err)
	}
	if err := repo.Resolve(dbc, u.ID, first.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := repo.Resolve(dbc, u.ID, first.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("double Resolve: expected ErrNotPending, got %v", err)
	}

	// slot is free again
	if err := repo.Create(dbc, second, Asked{Word: &types.WAskedData{WordID: 1, ShowAccents: true}}); err != nil {
		t.Fatalf("Create after resolve: %v", err)
	}
}

func TestAnswerLogCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	pending := NewPendingItemRepo(db, testutil.Logger(t))
	answers := NewAnswerLogRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "log@example.com")
	now := time.Now().UTC()

	item := &types.PendingItem{UserID: u.ID, AudioFileID: 1, AskedDate: now}
	if err := pending.Create(dbc, item, Asked{Word: &types.WAskedData{WordID: 1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pending.Resolve(dbc, u.ID, item.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := answers.AppendWord(dbc, &types.WAnsweredData{ID: item.ID, AudioTimes: 2}); err != nil {
		t.Fatalf("AppendWord: %v", err)
	}

	counts, err := answers.CountByUser(dbc, u.ID, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if counts.Words != 1 || counts.Questions != 0 || counts.Exercises != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
