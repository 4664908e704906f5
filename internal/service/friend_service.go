package service

import (
	"context"

	"whiskaway/internal/models"
	"whiskaway/internal/observability"
	"whiskaway/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo  repository.FriendRepository
	profileRepo repository.ProfileRepository
	notifier    NotificationEmitter
}

// FriendRequestResult reports what SendFriendRequest did. Accepted is true
// when the call completed a crossing request instead of creating one.
type FriendRequestResult struct {
	Accepted bool                  `json:"accepted"`
	Request  *models.FriendRequest `json:"request,omitempty"`
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, profileRepo repository.ProfileRepository, notifier NotificationEmitter) *FriendService {
	return &FriendService{
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

func (s *FriendService) requireProfile(ctx context.Context, id uint) error {
	exists, err := s.profileRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Profile", id)
	}
	return nil
}

// SendFriendRequest sends a friend request from one profile to another. A
// pending request in the opposite direction is accepted instead.
func (s *FriendService) SendFriendRequest(ctx context.Context, fromID, toID uint) (*FriendRequestResult, error) {
	if fromID == toID {
		return nil, models.NewInvalidOperationError("Cannot send friend request to yourself")
	}
	if err := s.requireProfile(ctx, toID); err != nil {
		return nil, err
	}

	friends, err := s.friendRepo.AreFriends(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, models.NewInvalidOperationError("You are already friends")
	}

	existing, err := s.friendRepo.GetRequest(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewInvalidOperationError("Friend request already sent")
	}

	crossing, err := s.friendRepo.GetRequest(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if crossing != nil {
		if err := s.accept(ctx, fromID, toID); err != nil {
			return nil, err
		}
		observability.FriendRequestOutcomes.WithLabelValues("auto_accepted").Inc()
		return &FriendRequestResult{Accepted: true}, nil
	}

	req := &models.FriendRequest{FromProfileID: fromID, ToProfileID: toID}
	if err := s.friendRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	observability.FriendRequestOutcomes.WithLabelValues("sent").Inc()

	emitBestEffort(ctx, s.notifier, models.NotificationFriendRequest, uintPtr(fromID), toID,
		models.FriendRequestData{FromProfileID: fromID})
	return &FriendRequestResult{Request: req}, nil
}

// AcceptFriendRequest accepts the pending request from requesterID addressed to profileID.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, profileID, requesterID uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FriendService", "AcceptFriendRequest",
		attribute.Int64("profile.id", int64(profileID)),
		attribute.Int64("requester.id", int64(requesterID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	pending, err := s.friendRepo.GetRequest(ctx, requesterID, profileID)
	if err != nil {
		return err
	}
	if pending == nil {
		return models.NewNotFoundError("Friend request from profile", requesterID)
	}
	if err := s.accept(ctx, profileID, requesterID); err != nil {
		return err
	}
	observability.FriendRequestOutcomes.WithLabelValues("accepted").Inc()
	return nil
}

// accept links acceptor and requester, consuming the requester's request,
// and tells the requester.
func (s *FriendService) accept(ctx context.Context, acceptorID, requesterID uint) error {
	defer observability.TrackOperation("friend_accept")()
	if err := s.friendRepo.Accept(ctx, requesterID, acceptorID); err != nil {
		return err
	}
	emitBestEffort(ctx, s.notifier, models.NotificationFriendAccept, uintPtr(acceptorID), requesterID,
		models.FriendAcceptData{ProfileID: acceptorID})
	return nil
}

// DenyFriendRequest removes the pending request from requesterID without notifying anyone.
func (s *FriendService) DenyFriendRequest(ctx context.Context, profileID, requesterID uint) error {
	if err := s.friendRepo.DeleteRequest(ctx, requesterID, profileID); err != nil {
		return err
	}
	observability.FriendRequestOutcomes.WithLabelValues("denied").Inc()
	return nil
}

// RemoveFriend removes the friendship between two profiles.
func (s *FriendService) RemoveFriend(ctx context.Context, profileID, friendID uint) error {
	return s.friendRepo.RemoveFriendship(ctx, profileID, friendID)
}

// ListPendingRequests returns requests addressed to the profile.
func (s *FriendService) ListPendingRequests(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.ListIncoming(ctx, profileID)
}

// ListSentRequests returns requests sent by the profile.
func (s *FriendService) ListSentRequests(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.ListOutgoing(ctx, profileID)
}

// ListFriends returns the friends of the profile.
func (s *FriendService) ListFriends(ctx context.Context, profileID uint) ([]models.Profile, error) {
	if err := s.requireProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.friendRepo.ListFriends(ctx, profileID)
}

// FriendshipStatus describes the relation of other as seen by profileID.
func (s *FriendService) FriendshipStatus(ctx context.Context, profileID, otherID uint) (models.FriendshipStatus, error) {
	if err := s.requireProfile(ctx, otherID); err != nil {
		return "", err
	}

	friends, err := s.friendRepo.AreFriends(ctx, profileID, otherID)
	if err != nil {
		return "", err
	}
	if friends {
		return models.FriendshipStatusFriends, nil
	}

	sent, err := s.friendRepo.GetRequest(ctx, profileID, otherID)
	if err != nil {
		return "", err
	}
	if sent != nil {
		return models.FriendshipStatusPendingSent, nil
	}

	received, err := s.friendRepo.GetRequest(ctx, otherID, profileID)
	if err != nil {
		return "", err
	}
	if received != nil {
		return models.FriendshipStatusPendingReceived, nil
	}
	return models.FriendshipStatusNone, nil
}
