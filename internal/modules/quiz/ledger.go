package quiz

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/data/repos/ledger"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/dbctx"
)

// offer registers a pending item with its frozen choices. A non-zero
// testEventID marks it as a test item of that event. When a concurrent offer
// for the same user won the slot, that item is returned instead.
func (e *Engine) offer(dbc dbctx.Context, userID, audioFileID int64, asked ledger.Asked, testEventID int64, now time.Time) (*types.PendingItem, ledger.Asked, error) {
	item := &types.PendingItem{
		UserID:      userID,
		AudioFileID: audioFileID,
		AskedDate:   now,
	}
	if testEventID != 0 {
		item.TestItem = true
		item.TestEventID = &testEventID
	}
	err := e.deps.Pending.Create(dbc, item, asked)
	if apierr.IsUniqueViolation(err) {
		// lost a race with a concurrent offer for the same user
		e.log.Warn("concurrent offer, recovering existing pending item", "user_id", userID)
		cur, curAsked, cerr := e.current(dbc, userID)
		if cerr != nil {
			return nil, ledger.Asked{}, cerr
		}
		if cur == nil {
			return nil, ledger.Asked{}, apierr.Transient(fmt.Errorf("pending item vanished after conflict: %w", err))
		}
		return cur, curAsked, nil
	}
	if err != nil {
		return nil, ledger.Asked{}, fmt.Errorf("create pending item: %w", err)
	}
	return item, asked, nil
}

// current returns the user's pending item and its asked body, or nil.
func (e *Engine) current(dbc dbctx.Context, userID int64) (*types.PendingItem, ledger.Asked, error) {
	item, err := e.deps.Pending.Current(dbc, userID)
	if err != nil {
		return nil, ledger.Asked{}, fmt.Errorf("load pending item: %w", err)
	}
	if item == nil {
		return nil, ledger.Asked{}, nil
	}
	asked, err := e.deps.Pending.LoadAsked(dbc, item)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.Asked{}, apierr.DataIntegrity("pending item %d has no asked data", item.ID)
		}
		return nil, ledger.Asked{}, err
	}
	return item, asked, nil
}

// resolve closes the pending item an answer refers to. The item must have
// been offered by the same test event, or by the selector when testEventID
// is zero.
func (e *Engine) resolve(dbc dbctx.Context, userID int64, ans Answer, testEventID int64) (*types.PendingItem, ledger.Asked, error) {
	item, err := e.deps.Pending.GetByID(dbc, userID, ans.PendingID())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.Asked{}, apierr.NotFound("pending item %d", ans.PendingID())
	}
	if err != nil {
		return nil, ledger.Asked{}, fmt.Errorf("load pending item: %w", err)
	}
	if item.ItemType != ans.Kind() {
		return nil, ledger.Asked{}, apierr.FormParse("answer type %s does not match pending %s item", ans.Kind(), item.ItemType)
	}
	switch {
	case item.TestItem && testEventID == 0:
		return nil, ledger.Asked{}, apierr.FormParse("item %d belongs to a test event", item.ID)
	case !item.TestItem && testEventID != 0:
		return nil, ledger.Asked{}, apierr.FormParse("item %d is not a test item", item.ID)
	case OfferingEvent(item) != testEventID:
		return nil, ledger.Asked{}, apierr.FormParse("item %d belongs to another test event", item.ID)
	}

	if err := e.deps.Pending.Resolve(dbc, userID, item.ID); err != nil {
		if errors.Is(err, ledger.ErrNotPending) {
			return nil, ledger.Asked{}, apierr.FormParse("item %d was already answered", item.ID)
		}
		return nil, ledger.Asked{}, fmt.Errorf("resolve pending item: %w", err)
	}
	item.Pending = false

	asked, err := e.deps.Pending.LoadAsked(dbc, item)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.Asked{}, apierr.DataIntegrity("pending item %d has no asked data", item.ID)
		}
		return nil, ledger.Asked{}, err
	}
	return item, asked, nil
}

// Current renders the user's pending prompt, or returns nil.
func (e *Engine) Current(dbc dbctx.Context, userID int64) (Quiz, *types.PendingItem, error) {
	item, asked, err := e.current(dbc, userID)
	if err != nil || item == nil {
		return nil, nil, err
	}
	q, err := e.render(dbc, item, asked)
	if err != nil {
		return nil, nil, err
	}
	return q, item, nil
}

// OfferingEvent returns the test event that offered item, or zero for a
// regular item.
func OfferingEvent(item *types.PendingItem) int64 {
	if item == nil || !item.TestItem || item.TestEventID == nil {
		return 0
	}
	return *item.TestEventID
}
