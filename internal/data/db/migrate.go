package db

import (
	"fmt"

	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Identity + sessions
		// =========================
		&types.User{},
		&types.Group{},
		&types.GroupMembership{},
		&types.Session{},
		&types.EmailConfirmation{},

		// =========================
		// Content
		// =========================
		&types.SkillNugget{},
		&types.Narrator{},
		&types.AudioBundle{},
		&types.AudioFile{},
		&types.Word{},
		&types.Question{},
		&types.Answer{},
		&types.Exercise{},
		&types.ExerciseVariant{},

		// =========================
		// Scheduling state
		// =========================
		&types.DueItem{},
		&types.QuestionData{},
		&types.ExerciseData{},
		&types.SkillData{},
		&types.UserMetrics{},

		// =========================
		// Pending ledger + answer log
		// =========================
		&types.PendingItem{},
		&types.QAskedData{},
		&types.EAskedData{},
		&types.WAskedData{},
		&types.QAnsweredData{},
		&types.EAnsweredData{},
		&types.WAnsweredData{},

		// =========================
		// Test mode
		// =========================
		&types.Event{},
		&types.EventExperience{},
		&types.EventUserdata{},
	)
}

// EnsureQuizIndexes creates the indexes gorm tags cannot express.
// Both postgres and sqlite accept partial indexes in this form.
func EnsureQuizIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_pending_item_user_pending ON pending_item (user_id) WHERE pending`).Error; err != nil {
		return fmt.Errorf("create idx_pending_item_user_pending: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_pending_item_user_type ON pending_item (user_id, item_type, test_item)`).Error; err != nil {
		return fmt.Errorf("create idx_pending_item_user_type: %w", err)
	}
	return nil
}
