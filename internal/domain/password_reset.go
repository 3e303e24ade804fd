package domain

import "time"

type ResetRequestStatus string

const (
	ResetPending   ResetRequestStatus = "PENDING"
	ResetCompleted ResetRequestStatus = "COMPLETED"
	ResetRejected  ResetRequestStatus = "REJECTED"
)

// PasswordResetRequest is created by a user who cannot self-serve a
// reset; an admin processes or rejects it.
type PasswordResetRequest struct {
	ID                    int64              `json:"id" gorm:"primaryKey"`
	UserID                int64              `json:"user_id" gorm:"index;not null"`
	PhoneNumber           string             `json:"phone_number"`
	RequestReason         string             `json:"request_reason"`
	Status                ResetRequestStatus `json:"status" gorm:"index;default:PENDING"`
	ExpiresAt             time.Time          `json:"expires_at"`
	ProcessedByAdminID    *int64             `json:"-"`
	ProcessedAt           *time.Time         `json:"processed_at,omitempty"`
	TemporaryPasswordHash *string            `json:"-"`
	AdminNotes            *string            `json:"admin_notes,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

func (PasswordResetRequest) TableName() string { return "password_reset_requests" }
