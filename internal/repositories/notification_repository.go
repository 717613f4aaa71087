package repositories

import (
	"errors"

	"github.com/scribely/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	// Record stores the notification unless one already exists for the same
	// (recipient, post) pair. It reports whether a new row was inserted.
	Record(notification *models.Notification) (bool, error)
	GetByRecipientID(recipientID uint) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) error
	CountForPost(postID uint) (int64, error)
	DeleteForEntity(tx *gorm.DB, kind models.FavoritableKind, id uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository
// backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// Record inserts the notification. The unique index on (recipient_id, post_id)
// makes retried deliveries no-ops: a conflict means the recipient already got
// this one, which is success, not an error.
func (r *postgresNotificationRepository) Record(notification *models.Notification) (bool, error) {
	var existing models.Notification
	err := r.db.Where("recipient_id = ? AND post_id = ?", notification.RecipientID, notification.PostID).
		First(&existing).Error
	if err == nil {
		*notification = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Create(notification).Error; err != nil {
		// Lost the race against a concurrent dispatch of the same event;
		// the pair is recorded either way.
		lookupErr := r.db.Where("recipient_id = ? AND post_id = ?", notification.RecipientID, notification.PostID).
			First(&existing).Error
		if lookupErr == nil {
			*notification = existing
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByRecipientID returns the user's notifications, newest first
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadCount returns the number of unread notifications for a user
func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead marks a single notification as read
func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

// MarkAllAsRead marks all of a user's notifications as read
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}

// CountForPost returns how many notifications a post's publication produced
func (r *postgresNotificationRepository) CountForPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteForEntity removes notifications referencing a deleted post, or a
// deleted user on either side. Runs on the caller's transaction.
func (r *postgresNotificationRepository) DeleteForEntity(tx *gorm.DB, kind models.FavoritableKind, id uint) error {
	switch kind {
	case models.FavoritablePost:
		return tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error
	case models.FavoritableUser:
		return tx.Where("recipient_id = ? OR actor_id = ?", id, id).Delete(&models.Notification{}).Error
	}
	return nil
}
