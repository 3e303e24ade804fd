package verification

type ApproveRequest struct {
	Notes string `json:"notes"`
}

type RejectRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details" binding:"required"`
}

type ResubmissionRequest struct {
	Reason      string  `json:"reason" binding:"required"`
	DocumentIDs []int64 `json:"document_ids"`
}

type VerifyDocumentRequest struct {
	Status          string `json:"status" binding:"required,oneof=APPROVED REJECTED RESUBMISSION_REQUIRED"`
	RejectionReason string `json:"rejection_reason"`
}

type SuspendRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ProcessResetRequest struct {
	TemporaryPassword string `json:"temporary_password" binding:"required,min=8"`
	AdminNotes        string `json:"admin_notes"`
}

type RejectResetRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DirectResetRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
