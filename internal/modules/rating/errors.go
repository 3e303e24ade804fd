package rating

import "errors"

var (
	ErrDuplicateRating   = errors.New("rating already exists for this target")
	ErrMemberNotFound    = errors.New("member not found")
	ErrTargetNotFound    = errors.New("rating target not found")
	ErrRatingNotFound    = errors.New("rating not found")
	ErrClientsOnly       = errors.New("only clients can submit ratings")
	ErrOwnListing        = errors.New("members cannot rate their own listings")
	ErrTargetMismatch    = errors.New("target does not belong to the rated member")
	ErrForbidden         = errors.New("admin lacks the required capability")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrNotRatingOwner    = errors.New("rating belongs to a different client")
	ErrInvalidTargetPair = errors.New("category and target id do not match")
)
