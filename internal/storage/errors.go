package storage

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden: not author")

	ErrUserNotFound   = errors.New("user not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrFollowNotFound = errors.New("follow not found")

	ErrUsernameTaken = errors.New("username is already taken")
	ErrSlugTaken     = errors.New("group slug is already taken")
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrInvalidLogin  = errors.New("invalid password or username")
)

// IsNotFound reports whether err means a missing record of any kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrFollowNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrSlugTaken)
}
