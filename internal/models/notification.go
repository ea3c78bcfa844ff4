package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeUser   NotificationType = "user"
	NotificationTypeSystem NotificationType = "system"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// SystemSenderID marks notifications generated by the platform itself
// rather than by another user.
const SystemSenderID int64 = 0

// Notification is a single in-app message delivered to one recipient.
// Type and SentAt are immutable after creation; Status and FolderID are
// the only mutable fields.
type Notification struct {
	ID          int64              `json:"id"`
	SenderID    int64              `json:"sender_id"`
	RecipientID int64              `json:"recipient_id"`
	Title       string             `json:"title"`
	Message     string             `json:"message"`
	Type        NotificationType   `json:"type"`
	Status      NotificationStatus `json:"status"`
	FolderID    int64              `json:"folder_id"`
	Metadata    json.RawMessage    `json:"metadata,omitempty"`
	SentAt      time.Time          `json:"sent_at"`
}

// IsUnread reports whether the notification has not been read yet.
func (n Notification) IsUnread() bool {
	return n.Status == NotificationStatusUnread
}

func IsValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeUser, NotificationTypeSystem:
		return true
	}
	return false
}

func IsValidNotificationStatus(s NotificationStatus) bool {
	switch s {
	case NotificationStatusUnread, NotificationStatusRead:
		return true
	}
	return false
}
