package adminauth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("admin account is deactivated")
	ErrUsernameExists     = errors.New("username already taken")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrForbidden          = errors.New("admin lacks the required capability")
	ErrSelfAction         = errors.New("admins cannot perform this action on themselves")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordReuse      = errors.New("new password must differ from the current one")
)

// AccountLockedError mirrors the user-side lockout, with the longer
// admin window baked in by the caller.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	remaining := time.Until(e.Until).Round(time.Minute)
	if remaining < time.Minute {
		remaining = time.Minute
	}
	return fmt.Sprintf("account temporarily locked, try again in %s", remaining)
}
