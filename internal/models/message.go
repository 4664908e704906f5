package models

import (
	"time"
)

// MaxMessageLength is the maximum direct-message length in characters.
const MaxMessageLength = 1000

// Message is an immutable direct message between two profiles.
type Message struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	SenderProfileID    uint      `gorm:"not null;index:idx_messages_pair" json:"sender_profile_id"`
	RecipientProfileID uint      `gorm:"not null;index:idx_messages_pair;index" json:"recipient_profile_id"`
	Text               string    `gorm:"type:text;not null" json:"text"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// Counterpart returns the other participant of the message.
func (m *Message) Counterpart(profileID uint) uint {
	if m.SenderProfileID == profileID {
		return m.RecipientProfileID
	}
	return m.SenderProfileID
}

// FriendConversation pairs a friend with the latest message exchanged, if any.
type FriendConversation struct {
	Friend        Profile  `json:"friend"`
	LatestMessage *Message `json:"latest_message"`
}
