package models

import (
	"time"
)

// SecretMessage holds the single free-text message a user keeps. One row
// per user; writes upsert on user_id, last write wins.
type SecretMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;unique" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
