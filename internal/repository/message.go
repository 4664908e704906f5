package repository

import (
	"context"

	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListBetween returns every message exchanged by a and b, oldest first.
	ListBetween(ctx context.Context, a, b uint) ([]models.Message, error)
	// LatestWith returns, per counterpart, the newest message exchanged with profileID.
	LatestWith(ctx context.Context, profileID uint, counterparts []uint) (map[uint]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) ListBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	msgs := []models.Message{}
	if err := readDB(r.db).WithContext(ctx).
		Where("(sender_profile_id = ? AND recipient_profile_id = ?) OR (sender_profile_id = ? AND recipient_profile_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

func (r *messageRepository) LatestWith(ctx context.Context, profileID uint, counterparts []uint) (map[uint]models.Message, error) {
	latest := make(map[uint]models.Message, len(counterparts))
	if len(counterparts) == 0 {
		return latest, nil
	}

	db := readDB(r.db).WithContext(ctx)
	var ids []uint
	if err := db.Raw(`SELECT MAX(id) FROM messages
		WHERE (sender_profile_id = ? AND recipient_profile_id IN ?)
		   OR (recipient_profile_id = ? AND sender_profile_id IN ?)
		GROUP BY CASE WHEN sender_profile_id = ? THEN recipient_profile_id ELSE sender_profile_id END`,
		profileID, counterparts, profileID, counterparts, profileID).
		Scan(&ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(ids) == 0 {
		return latest, nil
	}

	var msgs []models.Message
	if err := db.Where("id IN ?", ids).Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, m := range msgs {
		latest[m.Counterpart(profileID)] = m
	}
	return latest, nil
}
