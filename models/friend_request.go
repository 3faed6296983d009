package models

import (
	"time"

	"gorm.io/gorm"
)

// Friend request statuses. A rejected or withdrawn request is deleted
// rather than kept around with a terminal status, so absence of a row
// between two users means they are not related.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID string    `gorm:"size:36;not null;uniqueIndex:idx_request_pair" json:"from_user_id"`
	FromUser   User      `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID   string    `gorm:"size:36;not null;uniqueIndex:idx_request_pair" json:"to_user_id"`
	ToUser     User      `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Status     string    `gorm:"size:20;default:'pending'" json:"status"` // pending, accepted
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PairScope matches the single request row between two users regardless
// of which of them sent it. Every lookup on an unordered pair goes
// through this predicate.
func PairScope(userA, userB string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA,
		)
	}
}

// InvolvingScope matches all request rows where the user appears on
// either side.
func InvolvingScope(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	}
}
