package testmode

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/testutil"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

func newEngine(db *gorm.DB, log *logger.Logger, clock func() time.Time) *quiz.Engine {
	return quiz.NewEngine(quiz.EngineDeps{
		DB:        db,
		Log:       log,
		Words:     repos.NewWordRepo(db, log),
		Questions: repos.NewQuestionRepo(db, log),
		Exercises: repos.NewExerciseRepo(db, log),
		Audio:     repos.NewAudioRepo(db, log),
		Due:       repos.NewDueItemRepo(db, log),
		Skills:    repos.NewSkillDataRepo(db, log),
		Metrics:   repos.NewUserMetricsRepo(db, log),
		Pending:   repos.NewPendingItemRepo(db, log),
		Answers:   repos.NewAnswerLogRepo(db, log),
		Users:     repos.NewUserRepo(db, log),
		Now:       clock,
		Pick:      func(int) int { return 0 },
	})
}

func TestSequenceWalkthrough(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	engine := newEngine(db, log, clock)
	events := repos.NewEventRepo(db, log)

	user := testutil.SeedUser(t, ctx, db, "tester@example.com")
	nar := testutil.SeedNarrator(t, ctx, db, "n", true)
	nug := testutil.SeedNugget(t, ctx, db, "ame")
	q := testutil.SeedQuestion(t, ctx, db, nug.ID, []string{"雨", "飴"}, []int64{
		testutil.SeedBundle(t, ctx, db, "rain", nar.ID, 1).ID,
		testutil.SeedBundle(t, ctx, db, "candy", nar.ID, 1).ID,
	})
	testutil.SeedWord(t, ctx, db, "あめ", nug.ID, testutil.SeedBundle(t, ctx, db, "ame", nar.ID, 1).ID)

	uc := New(UsecasesDeps{
		DB:     db,
		Log:    log,
		Engine: engine,
		Events: events,
		Words:  repos.NewWordRepo(db, log),
		Sequences: map[string][]Step{
			"pretest": {{Kind: quiz.KindQuestion, ID: q.ID}, {Kind: quiz.KindWord, Text: "あめ"}},
		},
		Now: clock,
	})
	if err := uc.SyncEvents(ctx); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	first, err := uc.Next(ctx, user.ID, "pretest")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	qq, ok := first.(quiz.QuestionQuiz)
	if !ok || qq.QuestionID != q.ID {
		t.Fatalf("expected the sequence question first, got %#v", first)
	}
	again, err := uc.Next(ctx, user.ID, "pretest")
	if err != nil || again.(quiz.QuestionQuiz).AskedID != qq.AskedID {
		t.Fatalf("Next should recover the pending test item: %#v %v", again, err)
	}

	wrong := q.Answers[1].ID
	if err := uc.Answer(ctx, user.ID, "pretest", quiz.QuestionAnswer{
		AskedID: qq.AskedID, QuestionID: qq.QuestionID, RightAID: qq.RightA, AnsweredID: &wrong,
	}, json.RawMessage(`{"confidence":3}`)); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	second, err := uc.Next(ctx, user.ID, "pretest")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	wq, ok := second.(quiz.WordQuiz)
	if !ok || wq.Word != "あめ" {
		t.Fatalf("expected the word step, got %#v", second)
	}
	if err := uc.Answer(ctx, user.ID, "pretest", quiz.WordAnswer{AskedID: wq.AskedID, WordID: wq.WordID}, nil); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	done, err := uc.Next(ctx, user.ID, "pretest")
	if err != nil || done != nil {
		t.Fatalf("expected a finished sequence, got %#v %v", done, err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	ev, err := events.GetByName(dbc, "pretest")
	if err != nil {
		t.Fatal(err)
	}
	exp, err := events.Experience(dbc, user.ID, ev.ID, now)
	if err != nil || exp.Position != 2 || exp.EventFinish == nil {
		t.Fatalf("experience not finished: %+v %v", exp, err)
	}
	data, err := events.ListUserdata(dbc, user.ID, ev.ID)
	if err != nil || len(data) != 2 {
		t.Fatalf("expected two userdata rows, got %d %v", len(data), err)
	}
	var rec answerRecord
	if err := json.Unmarshal(data[0].Data, &rec); err != nil || rec.AskedID != qq.AskedID || string(rec.Client) != `{"confidence":3}` {
		t.Fatalf("unexpected userdata %s", data[0].Data)
	}

	var dueCount int64
	db.Model(&types.DueItem{}).Where("user_id = ?", user.ID).Count(&dueCount)
	if dueCount != 0 {
		t.Fatalf("test answers created %d due items", dueCount)
	}
}

func TestUnknownEvent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	uc := New(UsecasesDeps{DB: db, Log: log, Events: repos.NewEventRepo(db, log)})
	_, err := uc.Next(context.Background(), 1, "nope")
	if !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestItemsStayWithTheirEvent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	engine := newEngine(db, log, clock)
	events := repos.NewEventRepo(db, log)
	user := testutil.SeedUser(t, ctx, db, "tester@example.com")
	nar := testutil.SeedNarrator(t, ctx, db, "n", true)
	nug := testutil.SeedNugget(t, ctx, db, "ame")
	testutil.SeedWord(t, ctx, db, "あめ", nug.ID, testutil.SeedBundle(t, ctx, db, "ame", nar.ID, 1).ID)

	uc := New(UsecasesDeps{
		DB:     db,
		Log:    log,
		Engine: engine,
		Events: events,
		Words:  repos.NewWordRepo(db, log),
		Sequences: map[string][]Step{
			"pretest":  {{Kind: quiz.KindWord, Text: "あめ"}},
			"posttest": {{Kind: quiz.KindWord, Text: "あめ"}},
		},
		Now: clock,
	})
	if err := uc.SyncEvents(ctx); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	first, err := uc.Next(ctx, user.ID, "pretest")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	wq := first.(quiz.WordQuiz)
	ans := quiz.WordAnswer{AskedID: wq.AskedID, WordID: wq.WordID}

	if _, err := uc.Next(ctx, user.ID, "posttest"); !apierr.HasCode(err, apierr.CodeFormParse) {
		t.Fatalf("posttest served the pretest item: %v", err)
	}
	if err := uc.Answer(ctx, user.ID, "posttest", ans, nil); !apierr.HasCode(err, apierr.CodeFormParse) {
		t.Fatalf("posttest accepted the pretest answer: %v", err)
	}
	if _, err := engine.NewQuiz(ctx, user.ID); !apierr.HasCode(err, apierr.CodeFormParse) {
		t.Fatalf("regular quiz served the test item: %v", err)
	}
	if err := engine.Reconcile(ctx, user.ID, ans); !apierr.HasCode(err, apierr.CodeFormParse) {
		t.Fatalf("regular answer resolved the test item: %v", err)
	}

	if err := uc.Answer(ctx, user.ID, "pretest", ans, nil); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	for name, wantPos := range map[string]int{"pretest": 1, "posttest": 0} {
		ev, err := events.GetByName(dbc, name)
		if err != nil {
			t.Fatal(err)
		}
		exp, err := events.Experience(dbc, user.ID, ev.ID, now)
		if err != nil || exp.Position != wantPos {
			t.Fatalf("%s: position %+v %v, want %d", name, exp, err, wantPos)
		}
		data, err := events.ListUserdata(dbc, user.ID, ev.ID)
		if err != nil || len(data) != wantPos {
			t.Fatalf("%s: %d userdata rows %v, want %d", name, len(data), err, wantPos)
		}
	}
}
