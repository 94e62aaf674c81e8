package testmode

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a named pre- or post-test.
type Event struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Published bool   `gorm:"not null;default:false;column:published" json:"published"`
	Required  bool   `gorm:"not null;default:false;column:required" json:"required"`
	Priority  int    `gorm:"not null;default:0;column:priority" json:"priority"`
}

func (Event) TableName() string { return "event" }

// EventExperience tracks one user's progress through an event's sequence.
type EventExperience struct {
	UserID      int64      `gorm:"primaryKey;autoIncrement:false;column:user_id" json:"user_id"`
	EventID     int64      `gorm:"primaryKey;autoIncrement:false;column:event_id" json:"event_id"`
	EventInit   time.Time  `gorm:"not null;column:event_init" json:"event_init"`
	EventFinish *time.Time `gorm:"column:event_finish" json:"event_finish,omitempty"`
	Position    int        `gorm:"not null;default:0;column:position" json:"position"`
}

func (EventExperience) TableName() string { return "event_experience" }

type EventUserdata struct {
	ID      int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64          `gorm:"not null;index:idx_event_userdata_user_event,priority:1;column:user_id" json:"user_id"`
	EventID int64          `gorm:"not null;index:idx_event_userdata_user_event,priority:2;column:event_id" json:"event_id"`
	Key     string         `gorm:"not null;column:key" json:"key"`
	Data    datatypes.JSON `gorm:"column:data" json:"data"`
	Created time.Time      `gorm:"not null;column:created" json:"created"`
}

func (EventUserdata) TableName() string { return "event_userdata" }
