package repository

import (
	"context"
	"errors"
	"time"

	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend data operations
type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	// GetRequest returns the pending from->to request, or nil when none exists.
	GetRequest(ctx context.Context, fromID, toID uint) (*models.FriendRequest, error)
	ListIncoming(ctx context.Context, profileID uint) ([]models.FriendRequest, error)
	ListOutgoing(ctx context.Context, profileID uint) ([]models.FriendRequest, error)
	DeleteRequest(ctx context.Context, fromID, toID uint) error
	// Accept consumes the pending from->to request and links both profiles.
	Accept(ctx context.Context, fromID, toID uint) error
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	ListFriends(ctx context.Context, profileID uint) ([]models.Profile, error)
	RemoveFriendship(ctx context.Context, a, b uint) error
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Omit("FromProfile", "ToProfile").Create(req).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewInvalidOperationError("A friend request between these profiles is already pending")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetRequest(ctx context.Context, fromID, toID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("from_profile_id = ? AND to_profile_id = ?", fromID, toID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *friendRepository) ListIncoming(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	reqs := []models.FriendRequest{}
	if err := readDB(r.db).WithContext(ctx).
		Where("to_profile_id = ?", profileID).
		Preload("FromProfile").
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *friendRepository) ListOutgoing(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	reqs := []models.FriendRequest{}
	if err := readDB(r.db).WithContext(ctx).
		Where("from_profile_id = ?", profileID).
		Preload("ToProfile").
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *friendRepository) DeleteRequest(ctx context.Context, fromID, toID uint) error {
	res := r.db.WithContext(ctx).
		Where("from_profile_id = ? AND to_profile_id = ?", fromID, toID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Friend request from profile", fromID)
	}
	return nil
}

func (r *friendRepository) Accept(ctx context.Context, fromID, toID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("from_profile_id = ? AND to_profile_id = ?", fromID, toID).Delete(&models.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.NewNotFoundError("Friend request from profile", fromID)
		}

		now := time.Now()
		edges := []models.FriendEdge{
			{ProfileID: fromID, FriendID: toID, CreatedAt: now},
			{ProfileID: toID, FriendID: fromID, CreatedAt: now},
		}
		return tx.Create(&edges).Error
	})
	return wrapWrite(err)
}

func (r *friendRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FriendEdge{}).
		Where("profile_id = ? AND friend_id = ?", a, b).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) ListFriends(ctx context.Context, profileID uint) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN profile_friends pf ON pf.friend_id = profiles.id").
		Where("pf.profile_id = ?", profileID).
		Order("profiles.id ASC").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *friendRepository) RemoveFriendship(ctx context.Context, a, b uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("(profile_id = ? AND friend_id = ?) OR (profile_id = ? AND friend_id = ?)", a, b, b, a).
			Delete(&models.FriendEdge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Friendship with profile", b)
		}
		return nil
	})
	return wrapWrite(err)
}
