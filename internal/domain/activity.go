package domain

import (
	"encoding/json"
	"time"
)

// AdminActionType is the closed set of auditable admin actions.
type AdminActionType string

const (
	ActionLogin                       AdminActionType = "LOGIN"
	ActionLogout                      AdminActionType = "LOGOUT"
	ActionAdminCreated                AdminActionType = "ADMIN_CREATED"
	ActionAdminUpdated                AdminActionType = "ADMIN_UPDATED"
	ActionAdminDeactivated            AdminActionType = "ADMIN_DEACTIVATED"
	ActionAdminReactivated            AdminActionType = "ADMIN_REACTIVATED"
	ActionAdminPasswordReset          AdminActionType = "ADMIN_PASSWORD_RESET"
	ActionVerificationReviewStarted   AdminActionType = "VERIFICATION_REVIEW_STARTED"
	ActionMemberVerificationApproved  AdminActionType = "MEMBER_VERIFICATION_APPROVED"
	ActionClientVerificationApproved  AdminActionType = "CLIENT_VERIFICATION_APPROVED"
	ActionMemberVerificationRejected  AdminActionType = "MEMBER_VERIFICATION_REJECTED"
	ActionClientVerificationRejected  AdminActionType = "CLIENT_VERIFICATION_REJECTED"
	ActionMemberResubmissionRequested AdminActionType = "MEMBER_RESUBMISSION_REQUESTED"
	ActionClientResubmissionRequested AdminActionType = "CLIENT_RESUBMISSION_REQUESTED"
	ActionDocumentVerified            AdminActionType = "DOCUMENT_VERIFIED"
	ActionUserSuspended               AdminActionType = "USER_SUSPENDED"
	ActionUserReactivated             AdminActionType = "USER_REACTIVATED"
	ActionUserPasswordReset           AdminActionType = "USER_PASSWORD_RESET"
	ActionSessionsTerminated          AdminActionType = "SESSIONS_TERMINATED"
	ActionRatingHidden                AdminActionType = "RATING_HIDDEN"
	ActionRatingRestored              AdminActionType = "RATING_RESTORED"
)

// AdminActivityLog is append-only. There is deliberately no update or
// delete path anywhere in the codebase for this table; corrections are
// made with compensating entries.
type AdminActivityLog struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	AdminID           int64           `json:"admin_id" gorm:"index;not null"`
	ActionType        AdminActionType `json:"action_type" gorm:"index"`
	ActionDescription string          `json:"action_description"`
	TargetType        *string         `json:"target_type,omitempty"`
	TargetID          *int64          `json:"target_id,omitempty"`
	TargetName        *string         `json:"target_name,omitempty"`
	PreviousValues    json.RawMessage `json:"previous_values,omitempty" gorm:"type:jsonb"`
	NewValues         json.RawMessage `json:"new_values,omitempty" gorm:"type:jsonb"`
	ChangedFields     json.RawMessage `json:"changed_fields,omitempty" gorm:"type:jsonb"`
	AdditionalData    json.RawMessage `json:"additional_data,omitempty" gorm:"type:jsonb"`
	IPAddress         *string         `json:"ip_address,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (AdminActivityLog) TableName() string { return "admin_activity_logs" }
