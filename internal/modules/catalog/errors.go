package catalog

import "errors"

var (
	ErrNotFound  = errors.New("listing not found")
	ErrNotOwner  = errors.New("listing belongs to a different member")
	ErrNotMember = errors.New("only members own listings")
)
