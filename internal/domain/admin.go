package domain

import "time"

type AdminRole string

const (
	RoleSuperAdmin        AdminRole = "SUPER_ADMIN"
	RoleVerificationAdmin AdminRole = "VERIFICATION_ADMIN"
	RoleContentAdmin      AdminRole = "CONTENT_ADMIN"
	RoleReportAdmin       AdminRole = "REPORT_ADMIN"
)

// Capabilities are the actual authorization unit. Role is advisory: it
// seeds defaults at creation, the flags are what gets enforced.
type Capabilities struct {
	CanVerifyMembers  bool `json:"can_verify_members"`
	CanVerifyClients  bool `json:"can_verify_clients"`
	CanResetPasswords bool `json:"can_reset_passwords"`
	CanManageContent  bool `json:"can_manage_content"`
	CanManageEvents   bool `json:"can_manage_events"`
	CanManageAdmins   bool `json:"can_manage_admins"`
	CanExportData     bool `json:"can_export_data"`
	CanAccessReports  bool `json:"can_access_reports"`
}

// DefaultCapabilities seeds capability flags for a newly created admin.
func DefaultCapabilities(role AdminRole) Capabilities {
	switch role {
	case RoleSuperAdmin:
		return Capabilities{
			CanVerifyMembers:  true,
			CanVerifyClients:  true,
			CanResetPasswords: true,
			CanManageContent:  true,
			CanManageEvents:   true,
			CanManageAdmins:   true,
			CanExportData:     true,
			CanAccessReports:  true,
		}
	case RoleVerificationAdmin:
		return Capabilities{
			CanVerifyMembers:  true,
			CanVerifyClients:  true,
			CanResetPasswords: true,
		}
	case RoleContentAdmin:
		return Capabilities{
			CanManageContent: true,
			CanManageEvents:  true,
		}
	case RoleReportAdmin:
		return Capabilities{
			CanExportData:    true,
			CanAccessReports: true,
		}
	default:
		return Capabilities{}
	}
}

type AdminUser struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FullName     string    `json:"full_name"`
	Email        *string   `json:"email,omitempty"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Role         AdminRole `json:"role"`

	Capabilities `gorm:"embedded"`

	IsActive           bool       `json:"is_active" gorm:"default:true"`
	MustChangePassword bool       `json:"must_change_password"`
	DeactivatedAt      *time.Time `json:"deactivated_at,omitempty"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	LoginCount          int        `json:"-"`

	CreatedByAdminID *int64    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (AdminUser) TableName() string { return "admin_users" }

// AdminSession distinguishes "token cryptographically valid" from
// "session administratively alive". A token whose session row is
// inactive must be rejected even before its expiry.
type AdminSession struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	AdminID           int64      `json:"admin_id" gorm:"index;not null"`
	TokenHash         string     `json:"-" gorm:"index;not null"`
	IP                *string    `json:"ip,omitempty"`
	ExpiresAt         time.Time  `json:"expires_at"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	TerminationReason *string    `json:"termination_reason,omitempty"`
	TerminatedAt      *time.Time `json:"terminated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (AdminSession) TableName() string { return "admin_sessions" }
