package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid phone number or password")
	ErrPhoneAlreadyExists  = errors.New("phone number already registered")
	ErrAccountSuspended    = errors.New("account has been suspended")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("current password is incorrect")
)

// AccountLockedError reports how long the lockout window still runs.
// Attempts during the window never touch the failure counter.
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
