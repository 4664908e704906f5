package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendRequestStatus represents the status of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestStatusPending is the only persisted state: accepted and
	// denied requests are removed.
	FriendRequestStatusPending FriendRequestStatus = "pending"
)

// FriendshipStatus describes the relation between two profiles as seen by one of them.
type FriendshipStatus string

const (
	FriendshipStatusNone            FriendshipStatus = "none"
	FriendshipStatusFriends         FriendshipStatus = "friends"
	FriendshipStatusPendingSent     FriendshipStatus = "pending_sent"
	FriendshipStatusPendingReceived FriendshipStatus = "pending_received"
)

// FriendEdge is one direction of a friendship. A friendship between A and B
// exists as the two rows (A,B) and (B,A).
type FriendEdge struct {
	ProfileID uint      `gorm:"primaryKey;autoIncrement:false" json:"profile_id"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (FriendEdge) TableName() string {
	return "profile_friends"
}

// FriendRequest is a pending, directed request from one profile to another.
type FriendRequest struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	FromProfileID uint                `gorm:"not null;index" json:"from_profile_id"`
	ToProfileID   uint                `gorm:"not null;index" json:"to_profile_id"`
	PairKey       string              `gorm:"size:41;uniqueIndex;not null" json:"-"`
	Status        FriendRequestStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt     time.Time           `json:"created_at"`

	FromProfile *Profile `gorm:"foreignKey:FromProfileID" json:"from_profile,omitempty"`
	ToProfile   *Profile `gorm:"foreignKey:ToProfileID" json:"to_profile,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendPairKey is the order-independent key of an unordered profile pair.
func FriendPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// BeforeCreate derives the pair key so at most one pending request exists per pair.
func (r *FriendRequest) BeforeCreate(_ *gorm.DB) error {
	r.PairKey = FriendPairKey(r.FromProfileID, r.ToProfileID)
	if r.Status == "" {
		r.Status = FriendRequestStatusPending
	}
	return nil
}
