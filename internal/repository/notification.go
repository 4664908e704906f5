package repository

import (
	"context"

	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for the notification log.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListForRecipient(ctx context.Context, profileID uint, limit, offset int) ([]models.Notification, error)
	// MarkRead flags one notification read. changed is false when it already was.
	MarkRead(ctx context.Context, id uint) (changed bool, err error)
	MarkAllRead(ctx context.Context, profileID uint) (int64, error)
	CountUnread(ctx context.Context, profileID uint) (int64, error)
	// PurgeProfile drops notifications addressed to profileID and clears it as sender.
	PurgeProfile(ctx context.Context, profileID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns the SQL-backed NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, wrapLookup(err, "Notification", id)
	}
	return &n, nil
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, profileID uint, limit, offset int) ([]models.Notification, error) {
	limit, offset = clampPage(limit, offset, 20)
	list := []models.Notification{}
	if err := readDB(r.db).WithContext(ctx).
		Where("to_profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return list, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND read = ?", id, false).
		Update("read", true)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, profileID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_profile_id = ? AND read = ?", profileID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, profileID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_profile_id = ? AND read = ?", profileID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *notificationRepository) PurgeProfile(ctx context.Context, profileID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("to_profile_id = ?", profileID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Notification{}).
			Where("from_profile_id = ?", profileID).
			Update("from_profile_id", nil).Error
	})
	return wrapWrite(err)
}
