package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/observability"
	"whiskaway/internal/repository"
)

// MessageService stores and lists direct messages.
type MessageService struct {
	messages repository.MessageRepository
	friends  repository.FriendRepository
	profiles repository.ProfileRepository
}

func NewMessageService(messages repository.MessageRepository, friends repository.FriendRepository, profiles repository.ProfileRepository) *MessageService {
	return &MessageService{messages: messages, friends: friends, profiles: profiles}
}

// Send stores a message. Recipients are not notified.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Message text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, models.NewValidationError(fmt.Sprintf("Message too long (max %d characters)", models.MaxMessageLength))
	}
	if senderID == recipientID {
		return nil, models.NewInvalidOperationError("Cannot send a message to yourself")
	}
	exists, err := s.profiles.Exists(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Profile", recipientID)
	}

	msg := &models.Message{SenderProfileID: senderID, RecipientProfileID: recipientID, Text: text}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesSent.Inc()
	return msg, nil
}

// Conversation returns the messages between two profiles, oldest first.
func (s *MessageService) Conversation(ctx context.Context, profileID, otherID uint) ([]models.Message, error) {
	return s.messages.ListBetween(ctx, profileID, otherID)
}

// LatestPerFriend lists every friend with the newest message exchanged.
// Friends with recent messages come first; friends without messages last.
func (s *MessageService) LatestPerFriend(ctx context.Context, profileID uint) ([]models.FriendConversation, error) {
	friends, err := s.friends.ListFriends(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(friends))
	for i, f := range friends {
		ids[i] = f.ID
	}
	latest, err := s.messages.LatestWith(ctx, profileID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.FriendConversation, 0, len(friends))
	for _, f := range friends {
		conv := models.FriendConversation{Friend: f}
		if m, ok := latest[f.ID]; ok {
			msg := m
			conv.LatestMessage = &msg
		}
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LatestMessage, out[j].LatestMessage
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case a.CreatedAt.Equal(b.CreatedAt):
			return a.ID > b.ID
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out, nil
}
