package repositories

import "errors"

// Caller-facing errors surfaced by the repositories. Handlers map these to
// HTTP statuses with errors.Is.
var (
	// ErrSelfFavorite is returned when a user tries to favorite themselves
	ErrSelfFavorite = errors.New("cannot favorite yourself")

	// ErrFavoriteNotFound is returned by Unfavorite when no matching favorite exists
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrTargetNotFound is returned when a favorite target does not resolve
	// to a live entity
	ErrTargetNotFound = errors.New("favorite target not found")

	// ErrUserNotFound is returned when a user id does not resolve
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound is returned when a post id does not resolve
	ErrPostNotFound = errors.New("post not found")

	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered
	ErrEmailTaken = errors.New("email already registered")
)
