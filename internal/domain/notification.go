package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifVerificationApproved  NotificationType = "VERIFICATION_APPROVED"
	NotifVerificationRejected  NotificationType = "VERIFICATION_REJECTED"
	NotifResubmissionRequired  NotificationType = "RESUBMISSION_REQUIRED"
	NotifPasswordResetReady    NotificationType = "PASSWORD_RESET_READY"
	NotifSystemAnnouncement    NotificationType = "SYSTEM_ANNOUNCEMENT"
	NotifNewRating             NotificationType = "NEW_RATING"
	NotifTransactionUpdate     NotificationType = "TRANSACTION_UPDATE"
)

type NotificationStatus string

const (
	NotificationUnread  NotificationStatus = "UNREAD"
	NotificationRead    NotificationStatus = "READ"
	NotificationDeleted NotificationStatus = "DELETED"
)

type Notification struct {
	ID        int64              `json:"id" gorm:"primaryKey"`
	UserID    int64              `json:"user_id" gorm:"index;not null"`
	Type      NotificationType   `json:"type"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Data      json.RawMessage    `json:"data,omitempty" gorm:"type:jsonb"`
	Status    NotificationStatus `json:"status" gorm:"index;default:UNREAD"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
