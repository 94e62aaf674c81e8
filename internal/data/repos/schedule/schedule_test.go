package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

func TestDueItemRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDueItemRepo(db, testutil.Logger(t))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := testutil.SeedUser(t, ctx, tx, "due@example.com")
	nar := testutil.SeedNarrator(t, ctx, tx, "n", true)
	b := testutil.SeedBundle(t, ctx, tx, "b", nar.ID, 1)
	nug := testutil.SeedNugget(t, ctx, tx, "n1")
	q1 := testutil.SeedQuestion(t, ctx, tx, nug.ID, []string{"a"}, []int64{b.ID})
	q2 := testutil.SeedQuestion(t, ctx, tx, nug.ID, []string{"b"}, []int64{b.ID})

	if got, err := repo.GetForQuestion(dbc, u.ID, q1.ID); err != nil || got != nil {
		t.Fatalf("GetForQuestion before create: got=%v err=%v", got, err)
	}

	if _, err := repo.CreateForQuestion(dbc, u.ID, q1.ID, &types.DueItem{DueDate: now.Add(-time.Minute), Cooldown: now}); err != nil {
		t.Fatalf("CreateForQuestion q1: %v", err)
	}
	if _, err := repo.CreateForQuestion(dbc, u.ID, q2.ID, &types.DueItem{DueDate: now.Add(time.Hour), Cooldown: now}); err != nil {
		t.Fatalf("CreateForQuestion q2: %v", err)
	}

	due, err := repo.ListDueQuestions(dbc, u.ID, now, 5)
	if err != nil {
		t.Fatalf("ListDueQuestions: %v", err)
	}
	if len(due) != 1 || due[0].ItemID != q1.ID || due[0].Due.ItemType != types.DueTypeQuestion {
		t.Fatalf("expected only q1 due, got %+v", due)
	}

	next, err := repo.EarliestFuture(dbc, u.ID, now)
	if err != nil || next == nil || !next.Equal(now.Add(time.Hour)) {
		t.Fatalf("EarliestFuture: got=%v err=%v", next, err)
	}

	// second row for the same (user, question) violates the unique index
	_, err = repo.CreateForQuestion(dbc, u.ID, q1.ID, &types.DueItem{DueDate: now, Cooldown: now})
	if !apierr.IsUniqueViolation(err) {
		t.Fatalf("duplicate due item: expected unique violation, got %v", err)
	}

	row, err := repo.GetForQuestion(dbc, u.ID, q1.ID)
	if err != nil || row == nil {
		t.Fatalf("GetForQuestion: row=%v err=%v", row, err)
	}
	row.DueDelay = 60
	row.CorrectStreakThis = 2
	if err := repo.Save(dbc, row); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := repo.GetForQuestion(dbc, u.ID, q1.ID)
	if err != nil || again.DueDelay != 60 || again.CorrectStreakThis != 2 {
		t.Fatalf("Save not persisted: %+v err=%v", again, err)
	}
}

func TestSkillDataBumpIsMonotone(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSkillDataRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "skill@example.com")
	nug := testutil.SeedNugget(t, ctx, tx, "n")

	if lvl, err := repo.GetLevel(dbc, u.ID, nug.ID); err != nil || lvl != 0 {
		t.Fatalf("GetLevel fresh: lvl=%d err=%v", lvl, err)
	}
	prev := 0
	for i := 0; i < 3; i++ {
		if err := repo.Bump(dbc, u.ID, nug.ID, 1); err != nil {
			t.Fatalf("Bump: %v", err)
		}
		lvl, err := repo.GetLevel(dbc, u.ID, nug.ID)
		if err != nil {
			t.Fatalf("GetLevel: %v", err)
		}
		if lvl != prev+1 {
			t.Fatalf("bump %d: expected %d, got %d", i, prev+1, lvl)
		}
		prev = lvl
	}
	if err := repo.Bump(dbc, u.ID, nug.ID, -5); err != nil {
		t.Fatalf("negative bump: %v", err)
	}
	if lvl, _ := repo.GetLevel(dbc, u.ID, nug.ID); lvl != prev {
		t.Fatalf("negative bump changed level to %d", lvl)
	}
}

func TestUserMetricsGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserMetricsRepo(db, testutil.Logger(t))

	now := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	u := testutil.SeedUser(t, ctx, tx, "m@example.com")

	m, err := repo.GetOrCreateForUpdate(dbc, u.ID, now)
	if err != nil {
		t.Fatalf("GetOrCreateForUpdate: %v", err)
	}
	if !m.TodayBoundary.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected boundary %v", m.TodayBoundary)
	}
	if m.InitialDelay != 30 || m.DelayMultiplier != 2 || m.StreakSkillBumpCriterion != 2 {
		t.Fatalf("defaults not applied: %+v", m)
	}

	m.NewWordsToday = 3
	m.MaxNewWordsToday = 3
	if err := repo.Save(dbc, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := repo.GetOrCreateForUpdate(dbc, u.ID, now)
	if err != nil || again.NewWordsToday != 3 || again.MaxNewWordsToday != 3 {
		t.Fatalf("metrics not persisted: %+v err=%v", again, err)
	}
}
