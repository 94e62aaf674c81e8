package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	Joined       time.Time `gorm:"not null;column:joined" json:"joined"`
	LastSeen     time.Time `gorm:"not null;column:last_seen" json:"last_seen"`
}

func (User) TableName() string { return "user" }

type Group struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupName string `gorm:"not null;uniqueIndex;column:group_name" json:"group_name"`
	Anonymous bool   `gorm:"not null;default:false;column:anonymous" json:"anonymous"`
}

func (Group) TableName() string { return "user_group" }

type GroupMembership struct {
	UserID  int64 `gorm:"primaryKey;autoIncrement:false;column:user_id" json:"user_id"`
	GroupID int64 `gorm:"primaryKey;autoIncrement:false;column:group_id" json:"group_id"`
}

func (GroupMembership) TableName() string { return "group_membership" }

// Session is the authoritative record behind a session cookie.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index;column:user_id" json:"user_id"`
	Started   time.Time `gorm:"not null;column:started" json:"started"`
	LastSeen  time.Time `gorm:"not null;column:last_seen" json:"last_seen"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
}

func (Session) TableName() string { return "session" }

type EmailConfirmation struct {
	Secret    string    `gorm:"primaryKey;column:secret" json:"-"`
	Email     string    `gorm:"not null;column:email" json:"email"`
	GroupID   *int64    `gorm:"column:group_id" json:"group_id,omitempty"`
	Added     time.Time `gorm:"not null;column:added" json:"added"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
}

func (EmailConfirmation) TableName() string { return "pending_email_confirm" }
