package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType enumerates the events that can notify a user.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationMessage:
		return true
	}
	return false
}

// Notification is a persisted notification record. A notification is never
// created when recipient == sender.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	SenderID    uint             `gorm:"not null;index" json:"sender_id"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	PostID      *uint            `json:"post_id,omitempty"`
	Post        *Post            `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Text        string           `gorm:"type:text" json:"text"`
	IsRead      bool             `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}
