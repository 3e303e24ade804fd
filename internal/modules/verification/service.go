package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
)

// Service owns the verification lifecycle of registrants. Every
// transition runs as one transaction covering the user row, document
// rows, the notification and the audit entry; no partial state is
// observable on failure.
type Service struct {
	users      UserRepositoryInterface
	admins     AdminRepositoryInterface
	notifs     Notifier
	audit      AuditLogger
	sessions   SessionTerminator
	bcryptCost int
}

func NewService(
	users UserRepositoryInterface,
	admins AdminRepositoryInterface,
	notifs Notifier,
	audit AuditLogger,
	sessions SessionTerminator,
	bcryptCost int,
) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		admins:     admins,
		notifs:     notifs,
		audit:      audit,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

// -------------------- Capability gate --------------------

// gateVerify checks the acting admin's capability flag for the target
// user's type. Flags are the authorization unit; role is not consulted.
func (s *Service) gateVerify(ctx context.Context, adminID int64, userType domain.UserType) (*domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrForbidden
	}

	switch userType {
	case domain.UserTypeMember:
		if !admin.CanVerifyMembers {
			return nil, ErrForbidden
		}
	case domain.UserTypeClient:
		if !admin.CanVerifyClients {
			return nil, ErrForbidden
		}
	}

	return admin, nil
}

func (s *Service) gateResetPasswords(ctx context.Context, adminID int64) (*domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !admin.IsActive || !admin.CanResetPasswords {
		return nil, ErrForbidden
	}
	return admin, nil
}

func (s *Service) getUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// -------------------- Transitions --------------------

// StartReview moves PENDING or RESUBMITTED to UNDER_REVIEW.
func (s *Service) StartReview(ctx context.Context, userID, adminID int64) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	if user.VerificationStatus != domain.VerificationPending &&
		user.VerificationStatus != domain.VerificationResubmitted {
		return &StateConflictError{Op: "start review", Current: user.VerificationStatus}
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":     domain.VerificationUnderReview,
			"verification_started_at": now,
			"verified_by_admin_id":    adminID,
		}).Error; err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionVerificationReviewStarted,
			Description: fmt.Sprintf("Started verification review for %s (%s)", user.FullName, user.PhoneNumber),
			TargetType:  "user",
			TargetID:    userID,
			TargetName:  user.FullName,
		})
	})
}

// ApproveUser verifies the account and bulk-approves its pending
// documents. There is deliberately no guard on the current status: the
// original system allows approving from any state, including an already
// VERIFIED or SUSPENDED account.
func (s *Service) ApproveUser(ctx context.Context, userID, adminID int64, notes string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	actionType := domain.ActionClientVerificationApproved
	if user.UserType == domain.UserTypeMember {
		actionType = domain.ActionMemberVerificationApproved
	}

	var additional map[string]any
	if strings.TrimSpace(notes) != "" {
		additional = map[string]any{"notes": notes}
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":  domain.VerificationVerified,
			"verified_at":          now,
			"verified_by_admin_id": adminID,
			"rejection_reason":     nil,
			"rejection_details":    nil,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.VerificationDocument{}).
			Where("user_id = ? AND verification_status = ?", userID, domain.DocumentPending).
			Updates(map[string]any{
				"verification_status":  domain.DocumentApproved,
				"verified_at":          now,
				"verified_by_admin_id": adminID,
			}).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifVerificationApproved,
			"🎉 Account Verified!",
			"Your account has been verified successfully. You now have full access to all platform features.",
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:    adminID,
			ActionType: actionType,
			Description: fmt.Sprintf("Approved %s verification for %s (%s)",
				strings.ToLower(string(user.UserType)), user.FullName, user.PhoneNumber),
			TargetType: "user",
			TargetID:   userID,
			TargetName: user.FullName,
			Additional: additional,
		})
	})
}

func (s *Service) RejectUser(ctx context.Context, userID, adminID int64, reason, details string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	actionType := domain.ActionClientVerificationRejected
	if user.UserType == domain.UserTypeMember {
		actionType = domain.ActionMemberVerificationRejected
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":  domain.VerificationRejected,
			"rejection_reason":     reason,
			"rejection_details":    details,
			"verified_by_admin_id": adminID,
		}).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifVerificationRejected,
			"Verification Not Approved",
			fmt.Sprintf("Your verification was not approved. Reason: %s. Details: %s. You may resubmit with corrected information.", reason, details),
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:    adminID,
			ActionType: actionType,
			Description: fmt.Sprintf("Rejected %s verification for %s: %s",
				strings.ToLower(string(user.UserType)), user.FullName, reason),
			TargetType: "user",
			TargetID:   userID,
			TargetName: user.FullName,
			Additional: map[string]any{"reason": reason, "details": details},
		})
	})
}

// RequestResubmission rejects with the fixed "Resubmission Required"
// marker and optionally flags specific documents.
func (s *Service) RequestResubmission(ctx context.Context, userID, adminID int64, reason string, documentIDs []int64) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	actionType := domain.ActionClientResubmissionRequested
	if user.UserType == domain.UserTypeMember {
		actionType = domain.ActionMemberResubmissionRequested
	}

	var data map[string]any
	if len(documentIDs) > 0 {
		data = map[string]any{"document_ids": documentIDs}
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":  domain.VerificationRejected,
			"rejection_reason":     "Resubmission Required",
			"rejection_details":    reason,
			"verified_by_admin_id": adminID,
		}).Error; err != nil {
			return err
		}

		if len(documentIDs) > 0 {
			if err := tx.Model(&domain.VerificationDocument{}).
				Where("id IN ? AND user_id = ?", documentIDs, userID).
				Updates(map[string]any{
					"verification_status":  domain.DocumentResubmissionRequired,
					"rejection_reason":     reason,
					"verified_by_admin_id": adminID,
				}).Error; err != nil {
				return err
			}
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifResubmissionRequired,
			"Document Resubmission Required",
			fmt.Sprintf("Please resubmit your verification documents. Reason: %s", reason),
			data,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  actionType,
			Description: fmt.Sprintf("Requested document resubmission from %s", user.FullName),
			TargetType:  "user",
			TargetID:    userID,
			TargetName:  user.FullName,
		})
	})
}

// Resubmit is the user-side transition back to RESUBMITTED after a
// rejection, bumping the resubmission counter.
func (s *Service) Resubmit(ctx context.Context, userID int64) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.VerificationStatus != domain.VerificationRejected {
		return &StateConflictError{Op: "resubmit", Current: user.VerificationStatus}
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"verification_status":       domain.VerificationResubmitted,
			"verification_submitted_at": now,
			"resubmission_count":        gorm.Expr("resubmission_count + 1"),
		}).Error
}

// VerifyDocument reviews a single document independently of the parent
// user's account-level status.
func (s *Service) VerifyDocument(ctx context.Context, documentID, adminID int64, status domain.DocumentStatus, rejectionReason string) error {
	var doc domain.VerificationDocument
	if err := s.users.DB().WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	owner, err := s.getUser(ctx, doc.UserID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, owner.UserType); err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]any{
		"verification_status":  status,
		"verified_at":          now,
		"verified_by_admin_id": adminID,
	}
	if strings.TrimSpace(rejectionReason) != "" {
		updates["rejection_reason"] = rejectionReason
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.VerificationDocument{}).
			Where("id = ?", documentID).
			Updates(updates).Error; err != nil {
			return err
		}
		return s.audit.LogIn(tx, activity.Entry{
			AdminID:    adminID,
			ActionType: domain.ActionDocumentVerified,
			Description: fmt.Sprintf("Marked document %d (%s) of %s as %s",
				documentID, doc.DocumentType, owner.FullName, strings.ToLower(string(status))),
			TargetType: "document",
			TargetID:   documentID,
			TargetName: doc.DocumentType,
		})
	})
}

// SuspendUser is legal from any state. All active user sessions die in
// the same transaction, so a suspended user cannot refresh tokens.
func (s *Service) SuspendUser(ctx context.Context, userID, adminID int64, reason string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":   domain.VerificationSuspended,
			"is_active":             false,
			"suspended_at":          now,
			"suspended_reason":      reason,
			"suspended_by_admin_id": adminID,
		}).Error; err != nil {
			return err
		}

		if err := s.sessions.TerminateUserSessionsIn(tx, userID); err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifSystemAnnouncement,
			"Account Suspended",
			fmt.Sprintf("Your account has been suspended. Reason: %s. Contact admin for more information.", reason),
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionUserSuspended,
			Description: fmt.Sprintf("Suspended user %s: %s", user.FullName, reason),
			TargetType:  "user",
			TargetID:    userID,
			TargetName:  user.FullName,
		})
	})
}

// ReactivateUser always restores VERIFIED, even for accounts never
// verified before suspension. This mirrors the original system.
func (s *Service) ReactivateUser(ctx context.Context, userID, adminID int64) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.gateVerify(ctx, adminID, user.UserType); err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"verification_status":   domain.VerificationVerified,
			"is_active":             true,
			"suspended_at":          nil,
			"suspended_reason":      nil,
			"suspended_by_admin_id": nil,
		}).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifSystemAnnouncement,
			"Account Reactivated",
			"Your account has been reactivated. You can now access all platform features.",
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionUserReactivated,
			Description: fmt.Sprintf("Reactivated user %s", user.FullName),
			TargetType:  "user",
			TargetID:    userID,
			TargetName:  user.FullName,
		})
	})
}

// -------------------- Password resets --------------------

func (s *Service) ProcessPasswordReset(ctx context.Context, requestID, adminID int64, temporaryPassword, adminNotes string) error {
	if _, err := s.gateResetPasswords(ctx, adminID); err != nil {
		return err
	}

	var request domain.PasswordResetRequest
	if err := s.users.DB().WithContext(ctx).First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if request.Status != domain.ResetPending {
		return ErrAlreadyProcessed
	}

	user, err := s.getUser(ctx, request.UserID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).
			Where("id = ?", request.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}

		resetUpdates := map[string]any{
			"status":                  domain.ResetCompleted,
			"processed_by_admin_id":   adminID,
			"processed_at":            now,
			"temporary_password_hash": string(hash),
		}
		if strings.TrimSpace(adminNotes) != "" {
			resetUpdates["admin_notes"] = adminNotes
		}
		if err := tx.Model(&domain.PasswordResetRequest{}).
			Where("id = ?", requestID).
			Updates(resetUpdates).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, request.UserID, domain.NotifPasswordResetReady,
			"Password Reset Complete",
			"Your password has been reset by the admin. Please login with your temporary password and change it immediately.",
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionUserPasswordReset,
			Description: fmt.Sprintf("Processed password reset for %s (%s)", user.FullName, user.PhoneNumber),
			TargetType:  "user",
			TargetID:    request.UserID,
			TargetName:  user.FullName,
		})
	})
}

func (s *Service) RejectPasswordReset(ctx context.Context, requestID, adminID int64, reason string) error {
	if _, err := s.gateResetPasswords(ctx, adminID); err != nil {
		return err
	}

	var request domain.PasswordResetRequest
	if err := s.users.DB().WithContext(ctx).First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if request.Status != domain.ResetPending {
		return ErrAlreadyProcessed
	}

	user, err := s.getUser(ctx, request.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.PasswordResetRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]any{
				"status":                domain.ResetRejected,
				"processed_by_admin_id": adminID,
				"processed_at":          now,
				"admin_notes":           reason,
			}).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, request.UserID, domain.NotifSystemAnnouncement,
			"Password Reset Request Rejected",
			fmt.Sprintf("Your password reset request was rejected. Reason: %s", reason),
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionUserPasswordReset,
			Description: fmt.Sprintf("Rejected password reset request for %s: %s", user.FullName, reason),
			TargetType:  "user",
			TargetID:    request.UserID,
			TargetName:  user.FullName,
		})
	})
}

// AdminResetUserPassword bypasses the request queue and also clears any
// login lockout.
func (s *Service) AdminResetUserPassword(ctx context.Context, userID, adminID int64, newPassword string) error {
	if _, err := s.gateResetPasswords(ctx, adminID); err != nil {
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]any{
			"password_hash":         string(hash),
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return err
		}

		if err := s.notifs.CreateIn(tx, userID, domain.NotifPasswordResetReady,
			"Password Reset by Admin",
			"Your password has been reset. Please login and change it.",
			nil,
		); err != nil {
			return err
		}

		return s.audit.LogIn(tx, activity.Entry{
			AdminID:     adminID,
			ActionType:  domain.ActionUserPasswordReset,
			Description: fmt.Sprintf("Directly reset password for %s", user.FullName),
			TargetType:  "user",
			TargetID:    userID,
			TargetName:  user.FullName,
		})
	})
}
