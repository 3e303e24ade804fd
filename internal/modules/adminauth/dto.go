package adminauth

import "github.com/MHYAnate/rootafapi/internal/domain"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CapabilityOverrides lets a creation or update request pin individual
// flags. Nil means "keep the role default" (create) or "leave as is"
// (update).
type CapabilityOverrides struct {
	CanVerifyMembers  *bool `json:"can_verify_members"`
	CanVerifyClients  *bool `json:"can_verify_clients"`
	CanResetPasswords *bool `json:"can_reset_passwords"`
	CanManageContent  *bool `json:"can_manage_content"`
	CanManageEvents   *bool `json:"can_manage_events"`
	CanManageAdmins   *bool `json:"can_manage_admins"`
	CanExportData     *bool `json:"can_export_data"`
	CanAccessReports  *bool `json:"can_access_reports"`
}

func (o CapabilityOverrides) applyTo(caps domain.Capabilities) domain.Capabilities {
	if o.CanVerifyMembers != nil {
		caps.CanVerifyMembers = *o.CanVerifyMembers
	}
	if o.CanVerifyClients != nil {
		caps.CanVerifyClients = *o.CanVerifyClients
	}
	if o.CanResetPasswords != nil {
		caps.CanResetPasswords = *o.CanResetPasswords
	}
	if o.CanManageContent != nil {
		caps.CanManageContent = *o.CanManageContent
	}
	if o.CanManageEvents != nil {
		caps.CanManageEvents = *o.CanManageEvents
	}
	if o.CanManageAdmins != nil {
		caps.CanManageAdmins = *o.CanManageAdmins
	}
	if o.CanExportData != nil {
		caps.CanExportData = *o.CanExportData
	}
	if o.CanAccessReports != nil {
		caps.CanAccessReports = *o.CanAccessReports
	}
	return caps
}

type CreateAdminRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role" binding:"required,oneof=SUPER_ADMIN VERIFICATION_ADMIN CONTENT_ADMIN REPORT_ADMIN"`

	CapabilityOverrides
}

type UpdateAdminRequest struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role" binding:"omitempty,oneof=SUPER_ADMIN VERIFICATION_ADMIN CONTENT_ADMIN REPORT_ADMIN"`

	CapabilityOverrides
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ResetAdminPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type TerminateSessionsRequest struct {
	Reason string `json:"reason"`
}

// AdminSummary is the safe projection returned to clients.
type AdminSummary struct {
	ID                 int64               `json:"id"`
	Username           string              `json:"username"`
	FullName           string              `json:"full_name"`
	Email              *string             `json:"email,omitempty"`
	PhoneNumber        *string             `json:"phone_number,omitempty"`
	Role               domain.AdminRole    `json:"role"`
	Capabilities       domain.Capabilities `json:"capabilities"`
	IsActive           bool                `json:"is_active"`
	MustChangePassword bool                `json:"must_change_password"`
}

func toSummary(a *domain.AdminUser) AdminSummary {
	return AdminSummary{
		ID:                 a.ID,
		Username:           a.Username,
		FullName:           a.FullName,
		Email:              a.Email,
		PhoneNumber:        a.PhoneNumber,
		Role:               a.Role,
		Capabilities:       a.Capabilities,
		IsActive:           a.IsActive,
		MustChangePassword: a.MustChangePassword,
	}
}
