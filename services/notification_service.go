package services

import (
	"context"
	"errors"
	"time"

	"github.com/campusgate/admissions-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotificationNotFound marks a lookup that matched no row for the user
var ErrNotificationNotFound = errors.New("notification not found")

// CreateNotificationRequest is the input for a single notification
type CreateNotificationRequest struct {
	UserID      uint
	Type        model.NotificationType
	Title       string
	Message     string
	RelatedID   *uint
	RelatedType string
	Metadata    datatypes.JSON
}

// NotificationService handles in-app notification delivery and read state
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateTx writes a notification inside the caller's transaction so it
// commits or rolls back with the domain change it announces
func (s *NotificationService) CreateTx(tx *gorm.DB, req CreateNotificationRequest) error {
	notification := model.Notification{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		RelatedID:   req.RelatedID,
		RelatedType: req.RelatedType,
		Metadata:    req.Metadata,
	}
	return tx.Create(&notification).Error
}

// Create writes a standalone notification
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) error {
	return s.CreateTx(s.db.WithContext(ctx), req)
}

// ListForUser returns the user's notifications newest first, with the
// unread count for the badge
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

// MarkRead marks one notification read. Marking an already-read
// notification again is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	var notification model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&notification, notificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}

	if notification.IsRead {
		return nil
	}

	now := time.Now()
	return s.db.WithContext(ctx).Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}

// MarkAllRead marks every unread notification for the user read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

// DeleteOldRead removes read notifications older than the cutoff. The cron
// sweep calls this to keep the table from growing without bound.
func (s *NotificationService) DeleteOldRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
