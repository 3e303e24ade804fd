package verification

import (
	"errors"
	"fmt"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrRequestNotFound  = errors.New("reset request not found")
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrForbidden        = errors.New("admin lacks the required capability")
)

// StateConflictError is returned when a transition is attempted from an
// illegal source state. The caller sees the current status.
type StateConflictError struct {
	Op      string
	Current domain.VerificationStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s, current status: %s", e.Op, e.Current)
}
