package content

import (
	"context"
	"testing"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

func TestWordRepoListNotYetAsked(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewWordRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "a@example.com")
	nar := testutil.SeedNarrator(t, ctx, tx, "n", true)
	b := testutil.SeedBundle(t, ctx, tx, "aka", nar.ID, 1)
	nug := testutil.SeedNugget(t, ctx, tx, "aka/aka")
	w1 := testutil.SeedWord(t, ctx, tx, "あか", nug.ID, b.ID)
	w2 := testutil.SeedWord(t, ctx, tx, "あか2", nug.ID, b.ID)
	hidden := testutil.SeedWord(t, ctx, tx, "unpublished", nug.ID, b.ID)
	if err := tx.Model(hidden).Update("published", false).Error; err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	got, err := repo.ListNotYetAsked(dbc, u.ID, 5)
	if err != nil {
		t.Fatalf("ListNotYetAsked: %v", err)
	}
	if len(got) != 2 || got[0].ID != w1.ID || got[1].ID != w2.ID {
		t.Fatalf("expected [w1 w2], got %+v", got)
	}

	// a test-mode offer does not count as asked; a normal one does
	for _, testItem := range []bool{true, false} {
		p := &types.PendingItem{UserID: u.ID, AudioFileID: b.Files[0].ID, AskedDate: time.Now(), ItemType: types.ItemWord, TestItem: testItem}
		if err := tx.Create(p).Error; err != nil {
			t.Fatalf("create pending: %v", err)
		}
		if err := tx.Create(&types.WAskedData{ID: p.ID, WordID: w1.ID}).Error; err != nil {
			t.Fatalf("create asked: %v", err)
		}
		if err := tx.Model(p).Update("pending", false).Error; err != nil {
			t.Fatalf("resolve: %v", err)
		}
		got, err = repo.ListNotYetAsked(dbc, u.ID, 5)
		if err != nil {
			t.Fatalf("ListNotYetAsked: %v", err)
		}
		wantFirst := w1.ID
		if !testItem {
			wantFirst = w2.ID
		}
		if len(got) == 0 || got[0].ID != wantFirst {
			t.Fatalf("test_item=%v: expected first %d, got %+v", testItem, wantFirst, got)
		}
	}
}

func TestQuestionRepoUnlockGate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "q@example.com")
	nar := testutil.SeedNarrator(t, ctx, tx, "n", true)
	b1 := testutil.SeedBundle(t, ctx, tx, "b1", nar.ID, 1)
	b2 := testutil.SeedBundle(t, ctx, tx, "b2", nar.ID, 1)
	nug := testutil.SeedNugget(t, ctx, tx, "pair")
	q := testutil.SeedQuestion(t, ctx, tx, nug.ID, []string{"LH", "HL"}, []int64{b1.ID, b2.ID})

	got, err := repo.ListUnansweredUnlocked(dbc, u.ID, 1, 5)
	if err != nil {
		t.Fatalf("ListUnansweredUnlocked: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("locked nugget leaked a question: %+v", got)
	}

	testutil.SeedSkill(t, ctx, tx, u.ID, nug.ID, 2)
	got, err = repo.ListUnansweredUnlocked(dbc, u.ID, 1, 5)
	if err != nil {
		t.Fatalf("ListUnansweredUnlocked: %v", err)
	}
	if len(got) != 1 || got[0].ID != q.ID {
		t.Fatalf("expected question %d, got %+v", q.ID, got)
	}

	full, err := repo.GetByID(dbc, q.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(full.Answers) != 2 || full.Answers[0].AnswerText != "LH" {
		t.Fatalf("answers not preloaded in order: %+v", full.Answers)
	}
}

func TestAudioRepoListPlayable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAudioRepo(db, testutil.Logger(t))

	pub := testutil.SeedNarrator(t, ctx, tx, "pub", true)
	draft := testutil.SeedNarrator(t, ctx, tx, "draft", false)
	b := testutil.SeedBundle(t, ctx, tx, "mixed", pub.ID, 2)
	if err := tx.Create(&types.AudioFile{BundleID: b.ID, NarratorID: draft.ID, File: "x.mp3", Mime: "audio/mpeg", FileSHA2: "draft-sha"}).Error; err != nil {
		t.Fatalf("create draft file: %v", err)
	}

	files, err := repo.ListPlayable(dbc, b.ID)
	if err != nil {
		t.Fatalf("ListPlayable: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 playable files, got %d", len(files))
	}
	for _, f := range files {
		if f.NarratorID != pub.ID {
			t.Fatalf("unpublished narrator leaked: %+v", f)
		}
	}

	empty := testutil.SeedBundle(t, ctx, tx, "empty", pub.ID, 0)
	files, err = repo.ListPlayable(dbc, empty.ID)
	if err != nil || len(files) != 0 {
		t.Fatalf("empty bundle: err=%v len=%d", err, len(files))
	}
}
