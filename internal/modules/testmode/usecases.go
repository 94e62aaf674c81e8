package testmode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Engine *quiz.Engine
	Events repos.EventRepo
	Words  repos.WordRepo

	// Sequences maps event name to its ordered items.
	Sequences map[string][]Step

	Now func() time.Time
}

// Usecases walks users through fixed pre/post-test sequences. Items are
// offered as test items, so answers never reach the review schedule.
type Usecases struct {
	deps UsecasesDeps
	log  *logger.Logger
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Usecases{deps: deps, log: deps.Log.With("service", "TestMode")}
}

// SyncEvents makes sure every manifest event exists in the database.
func (u Usecases) SyncEvents(ctx context.Context) error {
	for name := range u.deps.Sequences {
		if _, err := u.deps.Events.Ensure(dbctx.Context{Ctx: ctx}, name); err != nil {
			return fmt.Errorf("ensure event %q: %w", name, err)
		}
	}
	return nil
}

// Next returns the user's current item of the event, or nil once the
// sequence is finished.
func (u Usecases) Next(ctx context.Context, userID int64, event string) (quiz.Quiz, error) {
	var out quiz.Quiz
	err := u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		now := u.deps.Now().UTC()

		ev, seq, err := u.event(dbc, event)
		if err != nil {
			return err
		}
		exp, err := u.deps.Events.Experience(dbc, userID, ev.ID, now)
		if err != nil {
			return fmt.Errorf("load experience: %w", err)
		}

		cur, item, err := u.deps.Engine.Current(dbc, userID)
		if err != nil {
			return err
		}
		if cur != nil {
			switch quiz.OfferingEvent(item) {
			case ev.ID:
				out = cur
				return nil
			case 0:
				return apierr.FormParse("answer the pending quiz before starting %q", event)
			default:
				return apierr.FormParse("finish the pending item of another test event before starting %q", event)
			}
		}

		if exp.Position >= len(seq) {
			return u.deps.Events.Finish(dbc, userID, ev.ID, now)
		}
		ref, err := u.resolve(dbc, seq[exp.Position])
		if err != nil {
			return err
		}
		out, err = u.deps.Engine.Offer(dbc, userID, ref, ev.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type answerRecord struct {
	AskedID  int64           `json:"asked_id"`
	Kind     string          `json:"kind"`
	Position int             `json:"position"`
	Client   json.RawMessage `json:"client,omitempty"`
}

// Answer resolves the pending test item, advances the sequence and stores
// payload (optional client JSON) as event userdata.
func (u Usecases) Answer(ctx context.Context, userID int64, event string, ans quiz.Answer, payload json.RawMessage) error {
	if len(payload) > 0 && !json.Valid(payload) {
		return apierr.FormParse("payload is not valid JSON")
	}
	return u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		now := u.deps.Now().UTC()

		ev, seq, err := u.event(dbc, event)
		if err != nil {
			return err
		}
		exp, err := u.deps.Events.Experience(dbc, userID, ev.ID, now)
		if err != nil {
			return fmt.Errorf("load experience: %w", err)
		}

		item, err := u.deps.Engine.ReconcileTx(dbc, userID, ans, ev.ID)
		if err != nil {
			return err
		}

		data, err := json.Marshal(answerRecord{AskedID: item.ID, Kind: item.ItemType, Position: exp.Position, Client: payload})
		if err != nil {
			return err
		}
		if err := u.deps.Events.AppendUserdata(dbc, userID, ev.ID, "answer", datatypes.JSON(data), now); err != nil {
			return fmt.Errorf("append userdata: %w", err)
		}
		if err := u.deps.Events.Advance(dbc, userID, ev.ID); err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if exp.Position+1 >= len(seq) {
			if err := u.deps.Events.Finish(dbc, userID, ev.ID, now); err != nil {
				return fmt.Errorf("finish: %w", err)
			}
			u.log.Info("test event finished", "user_id", userID, "event", event)
		}
		return nil
	})
}

func (u Usecases) event(dbc dbctx.Context, name string) (*types.Event, []Step, error) {
	seq, ok := u.deps.Sequences[name]
	if !ok {
		return nil, nil, apierr.NotFound("test event %q", name)
	}
	ev, err := u.deps.Events.GetByName(dbc, name)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !ev.Published) {
		return nil, nil, apierr.NotFound("test event %q", name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load event: %w", err)
	}
	return ev, seq, nil
}

func (u Usecases) resolve(dbc dbctx.Context, s Step) (quiz.ItemRef, error) {
	if s.ID > 0 {
		return quiz.ItemRef{Kind: s.Kind, ID: s.ID}, nil
	}
	w, err := u.deps.Words.GetByText(dbc, s.Text)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quiz.ItemRef{}, apierr.DataIntegrity("test sequence names unknown word %q", s.Text)
	}
	if err != nil {
		return quiz.ItemRef{}, fmt.Errorf("load word %q: %w", s.Text, err)
	}
	return quiz.ItemRef{Kind: quiz.KindWord, ID: w.ID}, nil
}
