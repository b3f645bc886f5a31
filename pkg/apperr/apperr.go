// Package apperr defines the error taxonomy shared by usecases and the REST facade.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomNotFound room id does not denote an existing chat room
	ErrRoomNotFound = errors.New("chat room not found")
	// ErrInvalidRoomID room id is empty or the "null" placeholder
	ErrInvalidRoomID = errors.New("invalid chat room id")
	// ErrItemNotFound item id does not denote an existing item
	ErrItemNotFound = errors.New("item not found")
	// ErrUserNotFound user id or credentials do not denote an existing user
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden caller is not allowed to perform the operation
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicated unique constraint hit on a user-visible resource
	ErrDuplicated = errors.New("duplicated resource")
	// ErrStoreConflict duplicate-key on an insert; recoverable in some flows
	ErrStoreConflict = errors.New("store conflict")
	// ErrInvalidParams request is missing or carries malformed parameters
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrNotAuthenticated token missing, expired or invalid
	ErrNotAuthenticated = errors.New("not authenticated")
)

// System wraps an unexpected store/IO failure so the facade can map it
// to the generic system-error response while keeping the cause.
func System(err error) error {
	return fmt.Errorf("system error: %w", err)
}
