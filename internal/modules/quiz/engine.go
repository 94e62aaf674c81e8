package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos/ledger"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

const scanLimit = 5

type EngineDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Words     repos.WordRepo
	Questions repos.QuestionRepo
	Exercises repos.ExerciseRepo
	Audio     repos.AudioRepo

	Due     repos.DueItemRepo
	Skills  repos.SkillDataRepo
	Metrics repos.UserMetricsRepo

	Pending repos.PendingItemRepo
	Answers repos.AnswerLogRepo
	Users   repos.UserRepo

	// OutputGroup members see pitch accents on new words.
	OutputGroup string

	Now  func() time.Time
	Pick func(n int) int
}

// Engine selects prompts, keeps the pending ledger and reconciles answers.
type Engine struct {
	deps EngineDeps
	log  *logger.Logger
}

func NewEngine(deps EngineDeps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Pick == nil {
		deps.Pick = rand.IntN
	}
	return &Engine{deps: deps, log: deps.Log.With("service", "QuizEngine")}
}

func (e *Engine) now() time.Time { return e.deps.Now().UTC() }

// NewQuiz returns the learner's next prompt without submitting anything.
func (e *Engine) NewQuiz(ctx context.Context, userID int64) (Quiz, error) {
	var out Quiz
	err := e.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := e.selectNext(dbctx.Context{Ctx: ctx, Tx: tx}, userID, e.now())
		out = q
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NextQuiz reconciles ans in its own transaction and then selects the next prompt.
func (e *Engine) NextQuiz(ctx context.Context, userID int64, ans Answer) (Quiz, error) {
	if err := e.Reconcile(ctx, userID, ans); err != nil {
		return nil, err
	}
	return e.NewQuiz(ctx, userID)
}

func (e *Engine) Reconcile(ctx context.Context, userID int64, ans Answer) error {
	return e.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := e.ReconcileTx(dbctx.Context{Ctx: ctx, Tx: tx}, userID, ans, 0)
		return err
	})
}

// MetricsReport is the learner-facing view of pacing state.
type MetricsReport struct {
	Metrics  *types.UserMetrics    `json:"metrics"`
	OnBreak  bool                  `json:"on_break"`
	Answered ledger.AnsweredCounts `json:"answered_today"`
}

func (e *Engine) Metrics(ctx context.Context, userID int64) (*MetricsReport, error) {
	var out *MetricsReport
	err := e.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		now := e.now()
		m, err := e.loadMetrics(dbc, userID, now)
		if err != nil {
			return err
		}
		dayStart := m.TodayBoundary.AddDate(0, 0, -1)
		counts, err := e.deps.Answers.CountByUser(dbc, userID, dayStart)
		if err != nil {
			return fmt.Errorf("count answers: %w", err)
		}
		out = &MetricsReport{Metrics: m, OnBreak: onBreak(m, now), Answered: counts}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// loadMetrics locks the user's metrics row and applies lazy rollover.
func (e *Engine) loadMetrics(dbc dbctx.Context, userID int64, now time.Time) (*types.UserMetrics, error) {
	m, err := e.deps.Metrics.GetOrCreateForUpdate(dbc, userID, now)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	if rollover(m, now) {
		if err := e.deps.Metrics.Save(dbc, m); err != nil {
			return nil, fmt.Errorf("save metrics: %w", err)
		}
	}
	return m, nil
}

// pickAudio chooses one playable file of a bundle. An empty bundle is a data error.
func (e *Engine) pickAudio(dbc dbctx.Context, bundleID int64) (*types.AudioFile, error) {
	files, err := e.deps.Audio.ListPlayable(dbc, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list audio for bundle %d: %w", bundleID, err)
	}
	if len(files) == 0 {
		return nil, apierr.DataIntegrity("audio bundle %d has no playable files", bundleID)
	}
	return files[e.deps.Pick(len(files))], nil
}

// integrity turns a missing referenced row into a DataIntegrity error.
func integrity(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.DataIntegrity(format+": referenced row missing", args...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func nfc(s string) string { return norm.NFC.String(s) }
