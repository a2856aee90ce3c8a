package domain

import (
	"context"
	"time"
)

// Hosting roles. A creator row is written when an event is created; an
// attendee row is written on registration. Both count against capacity.
const (
	HostingRoleCreator  = "creator"
	HostingRoleAttendee = "attendee"
)

// Hosting is a participation record linking a user to an event. At most one
// row exists per (event, user) pair, enforced by the storage layer.
// swagger:model Hosting
type Hosting struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHosting returns a new Hosting row.
func NewHosting(eventID, userID, role string, createdAt time.Time) *Hosting {
	return &Hosting{
		EventID:   eventID,
		UserID:    userID,
		Role:      role,
		CreatedAt: createdAt,
	}
}

// UserRegistration is a hosting row joined with its event and department data.
// swagger:model UserRegistration
type UserRegistration struct {
	EventID      string    `json:"event_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Department   string    `json:"department"`
	Fee          float64   `json:"fee"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationStatus annotates a UserRegistration as Upcoming or Past
// relative to the current date.
// swagger:model RegistrationStatus
type RegistrationStatus struct {
	UserRegistration
	Status string `json:"status"` // Upcoming or Past
}

// RosterEntry is one participant on an event roster.
// swagger:model RosterEntry
type RosterEntry struct {
	UserID     string `json:"user_id"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// HostingRepository defines storage operations for participation records.
// Register and Cancel compose their checks and writes into a single
// transaction so concurrent callers cannot overbook or double-register.
type HostingRepository interface {
	// Register validates and inserts an attendee hosting row atomically.
	// Checks run in order: event exists (ErrNotFound), event not past
	// relative to today (ErrEventPassed), no existing row
	// (ErrAlreadyRegistered), free capacity (ErrEventFull).
	Register(ctx context.Context, eventID, userID, today string) (*Hosting, error)
	// Cancel deletes the hosting row atomically. Returns ErrNotRegistered
	// when no row exists and ErrEventPassed when the event date is before
	// today.
	Cancel(ctx context.Context, eventID, userID, today string) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Hosting, error)
	ListByUser(ctx context.Context, userID string) ([]*UserRegistration, error)
	// ListRoster returns all participants of the event sorted by user ID.
	ListRoster(ctx context.Context, eventID string) ([]*RosterEntry, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// CreateEventInput carries the caller-supplied fields for CreateEvent.
type CreateEventInput struct {
	EventID    string `json:"event_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Department string `json:"department"`
}

// RegistrationService is the state-transition engine for registrations.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string) (*Hosting, error)
	Cancel(ctx context.Context, eventID, userID string) error
	// CreateEvent is host-only. It validates input, then inserts the event
	// and its creator hosting row in one transaction.
	CreateEvent(ctx context.Context, in CreateEventInput, creatorID string) (*Event, error)
}
