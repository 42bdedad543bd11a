package apperror

import "errors"

// State conflicts: expected, recoverable by the caller re-fetching state
// and retrying. They are never logged as faults.
var (
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrGameNotActive = errors.New("game is not active")
	ErrRoomFull      = errors.New("room is full")
)

// Validation errors: rejected before any mutation.
var (
	ErrOutOfBounds         = errors.New("move is out of bounds")
	ErrInvalidBoard        = errors.New("invalid board dimensions")
	ErrInvalidParticipants = errors.New("invalid participants")
)

// Not-found errors.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrGameNotFound = errors.New("game not found")
	ErrUserNotFound = errors.New("user not found")
)

// ErrStorageUnavailable wraps storage failures the core propagates without
// attempting retries.
var ErrStorageUnavailable = errors.New("storage unavailable")

// IsConflict reports whether err is an expected state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrGameNotActive) ||
		errors.Is(err, ErrRoomFull)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrInvalidBoard) ||
		errors.Is(err, ErrInvalidParticipants)
}

// IsNotFound reports whether err is an unknown-identity failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
