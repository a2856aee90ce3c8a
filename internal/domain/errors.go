package domain

import "errors"

// Sentinel errors returned by repositories and services. Controllers map these
// to stable HTTP error codes; raw storage errors never reach the client.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a hosting row already exists for
	// the (event, user) pair.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrEventFull is returned when an event has no remaining capacity.
	ErrEventFull = errors.New("event is full")

	// ErrNotRegistered is returned when cancelling a registration that does
	// not exist.
	ErrNotRegistered = errors.New("not registered for this event")

	// ErrEventPassed is returned when acting on an event whose date is in the
	// past.
	ErrEventPassed = errors.New("event has already passed")

	// ErrDuplicateEvent is returned when creating an event whose ID is taken.
	ErrDuplicateEvent = errors.New("event id already exists")

	// ErrDuplicateUser is returned when signing up with a user ID or email
	// that is taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUnknownDepartment is returned when an event references a department
	// that does not exist.
	ErrUnknownDepartment = errors.New("department does not exist")

	// ErrForbidden is returned when the caller lacks the privilege or
	// ownership required for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for malformed IDs, dates, times, or missing
	// required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable is returned when the backing store is unreachable after
	// bounded retries.
	ErrUnavailable = errors.New("storage unavailable")
)
