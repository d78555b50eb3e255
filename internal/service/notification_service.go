package service

import (
	"errors"
	"strings"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidNotification  = errors.New("invalid notification type or reference")
)

// NotificationService records addressed event rows for authors. Engagement
// producers (comment created, like, bookmark, share, follow) call Notify;
// the service only defines the row shape, not the trigger wiring.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a NotificationService instance.
func NewNotificationService(gdb *gorm.DB) *NotificationService {
	return &NotificationService{db: gdb}
}

// Notify appends an unread notification. The reference is a tagged
// (kind, id) pair so consumers know which table the id belongs to.
func (s *NotificationService) Notify(recipientID uint, notifType, refKind string, refID uint, message string) (*db.Notification, error) {
	if !validNotificationType(notifType) || !validRefKind(refKind) || refID == 0 {
		return nil, ErrInvalidNotification
	}

	notification := db.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		RefKind:     refKind,
		RefID:       refID,
		Message:     strings.TrimSpace(message),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient returns an author's notifications, newest first.
// unreadOnly narrows the list to unread rows.
func (s *NotificationService) ListByRecipient(recipientID uint, unreadOnly bool) ([]db.Notification, error) {
	query := s.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []db.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags a single notification as read.
func (s *NotificationService) MarkRead(id uint) error {
	res := s.db.Model(&db.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of a recipient.
func (s *NotificationService) MarkAllRead(recipientID uint) error {
	return s.db.Model(&db.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

func validNotificationType(t string) bool {
	switch t {
	case db.NotificationComment, db.NotificationLike, db.NotificationFollow,
		db.NotificationBookmark, db.NotificationShare:
		return true
	}
	return false
}

func validRefKind(kind string) bool {
	switch kind {
	case db.RefKindPost, db.RefKindComment, db.RefKindAuthor:
		return true
	}
	return false
}
