package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotificationType identifies the event a notification records.
type NotificationType string

const (
	NotificationFriendRequest        NotificationType = "friend_request"
	NotificationFriendAccept         NotificationType = "friend_accept"
	NotificationRecipeLike           NotificationType = "recipe_like"
	NotificationRecipeComment        NotificationType = "recipe_comment"
	NotificationCookbookShareRequest NotificationType = "cookbook_share_request"
	NotificationCookbookShareAccept  NotificationType = "cookbook_share_accept"
)

// Notification is an entry in a recipient's durable event log. Data holds the
// JSON encoding of the payload variant selected by Type.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Type          NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	FromProfileID *uint            `gorm:"index" json:"from_profile_id"`
	ToProfileID   uint             `gorm:"not null;index:idx_notifications_recipient" json:"to_profile_id"`
	Data          json.RawMessage  `gorm:"type:json" json:"data"`
	Read          bool             `gorm:"default:false;index:idx_notifications_recipient" json:"read"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationData is implemented by every payload variant.
type NotificationData interface {
	NotificationType() NotificationType
}

// FriendRequestData is the payload of friend_request.
type FriendRequestData struct {
	FromProfileID uint `json:"from_profile_id"`
}

// FriendAcceptData is the payload of friend_accept.
type FriendAcceptData struct {
	ProfileID uint `json:"profile_id"`
}

// RecipeLikeData is the payload of recipe_like.
type RecipeLikeData struct {
	RecipeID       uint `json:"recipe_id"`
	LikerProfileID uint `json:"liker_profile_id"`
}

// RecipeCommentData is the payload of recipe_comment.
type RecipeCommentData struct {
	RecipeID           uint   `json:"recipe_id"`
	CommentID          uint   `json:"comment_id"`
	CommenterProfileID uint   `json:"commenter_profile_id"`
	Preview            string `json:"preview"`
}

// CookbookShareRequestData is the payload of cookbook_share_request.
type CookbookShareRequestData struct {
	CookbookID    uint   `json:"cookbook_id"`
	Title         string `json:"title"`
	FromAccountID uint   `json:"from_account_id"`
}

// CookbookShareAcceptData is the payload of cookbook_share_accept.
type CookbookShareAcceptData struct {
	CookbookID uint `json:"cookbook_id"`
	AccountID  uint `json:"account_id"`
}

func (FriendRequestData) NotificationType() NotificationType { return NotificationFriendRequest }
func (FriendAcceptData) NotificationType() NotificationType  { return NotificationFriendAccept }
func (RecipeLikeData) NotificationType() NotificationType    { return NotificationRecipeLike }
func (RecipeCommentData) NotificationType() NotificationType { return NotificationRecipeComment }
func (CookbookShareRequestData) NotificationType() NotificationType {
	return NotificationCookbookShareRequest
}
func (CookbookShareAcceptData) NotificationType() NotificationType {
	return NotificationCookbookShareAccept
}

// NewNotification builds a notification whose type is derived from data.
func NewNotification(from *uint, to uint, data NotificationData) (*Notification, error) {
	if data == nil {
		return nil, NewValidationError("Notification payload is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return &Notification{
		Type:          data.NotificationType(),
		FromProfileID: from,
		ToProfileID:   to,
		Data:          raw,
	}, nil
}

// DecodeData returns the typed payload selected by n.Type.
func (n *Notification) DecodeData() (NotificationData, error) {
	var data NotificationData
	switch n.Type {
	case NotificationFriendRequest:
		data = &FriendRequestData{}
	case NotificationFriendAccept:
		data = &FriendAcceptData{}
	case NotificationRecipeLike:
		data = &RecipeLikeData{}
	case NotificationRecipeComment:
		data = &RecipeCommentData{}
	case NotificationCookbookShareRequest:
		data = &CookbookShareRequestData{}
	case NotificationCookbookShareAccept:
		data = &CookbookShareAcceptData{}
	default:
		return nil, fmt.Errorf("unknown notification type %q", n.Type)
	}
	if len(n.Data) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(n.Data, data); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", n.Type, err)
	}
	return data, nil
}

// NotificationEventKind names a notification store mutation.
type NotificationEventKind string

const (
	NotificationEmitted NotificationEventKind = "emitted"
	NotificationRead    NotificationEventKind = "read"
)

// NotificationEvent is delivered to notification subscribers after a mutation commits.
type NotificationEvent struct {
	Kind         NotificationEventKind `json:"kind"`
	Notification *Notification         `json:"notification,omitempty"`
	ProfileID    uint                  `json:"profile_id"`
}
