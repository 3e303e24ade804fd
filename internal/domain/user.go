package domain

import "time"

type UserType string

const (
	UserTypeMember UserType = "MEMBER"
	UserTypeClient UserType = "CLIENT"
)

type VerificationStatus string

const (
	VerificationPending     VerificationStatus = "PENDING"
	VerificationUnderReview VerificationStatus = "UNDER_REVIEW"
	VerificationVerified    VerificationStatus = "VERIFIED"
	VerificationRejected    VerificationStatus = "REJECTED"
	VerificationResubmitted VerificationStatus = "RESUBMITTED"
	VerificationSuspended   VerificationStatus = "SUSPENDED"
)

// User is a registrant (member or client). Rows are never hard-deleted;
// suspension flips IsActive instead.
type User struct {
	ID                  int64              `json:"id" gorm:"primaryKey"`
	PhoneNumber         string             `json:"phone_number" gorm:"uniqueIndex;not null"`
	PasswordHash        string             `json:"-" gorm:"not null"`
	FullName            string             `json:"full_name"`
	Email               *string            `json:"email,omitempty"`
	UserType            UserType           `json:"user_type"`
	VerificationStatus  VerificationStatus `json:"verification_status" gorm:"index"`
	RejectionReason     *string            `json:"rejection_reason,omitempty"`
	RejectionDetails    *string            `json:"rejection_details,omitempty"`
	ResubmissionCount   int                `json:"resubmission_count"`
	FailedLoginAttempts int                `json:"-"`
	LockedUntil         *time.Time         `json:"-"`
	IsActive            bool               `json:"is_active" gorm:"default:true"`
	SuspendedAt         *time.Time         `json:"suspended_at,omitempty"`
	SuspendedReason     *string            `json:"suspended_reason,omitempty"`
	SuspendedByAdminID  *int64             `json:"-"`

	VerificationSubmittedAt *time.Time `json:"verification_submitted_at,omitempty"`
	VerificationStartedAt   *time.Time `json:"verification_started_at,omitempty"`
	VerifiedAt              *time.Time `json:"verified_at,omitempty"`
	VerifiedByAdminID       *int64     `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LoginCount  int        `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type DocumentStatus string

const (
	DocumentPending              DocumentStatus = "PENDING"
	DocumentApproved             DocumentStatus = "APPROVED"
	DocumentRejected             DocumentStatus = "REJECTED"
	DocumentResubmissionRequired DocumentStatus = "RESUBMISSION_REQUIRED"
)

// VerificationDocument carries its own status independent of the parent
// user's account-level status.
type VerificationDocument struct {
	ID                 int64          `json:"id" gorm:"primaryKey"`
	UserID             int64          `json:"user_id" gorm:"index;not null"`
	DocumentType       string         `json:"document_type"`
	FileURL            string         `json:"file_url"`
	VerificationStatus DocumentStatus `json:"verification_status"`
	RejectionReason    *string        `json:"rejection_reason,omitempty"`
	VerifiedAt         *time.Time     `json:"verified_at,omitempty"`
	VerifiedByAdminID  *int64         `json:"-"`
	UploadedAt         time.Time      `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (VerificationDocument) TableName() string { return "verification_documents" }

// UserSession is one row per issued user refresh token. Suspension
// terminates all active rows so a suspended user cannot refresh.
type UserSession struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       int64      `json:"user_id" gorm:"index;not null"`
	TokenHash    string     `json:"-" gorm:"index"`
	IP           *string    `json:"-"`
	ExpiresAt    time.Time  `json:"expires_at"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	TerminatedAt *time.Time `json:"terminated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (UserSession) TableName() string { return "user_sessions" }
