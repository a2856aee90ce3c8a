package domain

import (
	"context"
	"time"
)

// Wire formats for event fields. Dates sort lexicographically in these
// layouts, so string comparison against "today" is a valid temporal check.
const (
	DateLayout = time.DateOnly // YYYY-MM-DD
	TimeLayout = "15:04"       // HH:MM, 24-hour
)

// Event represents a department event. Events are never updated or deleted
// once created; fee and capacity come from the department.
// swagger:model Event
type Event struct {
	ID         string    `json:"event_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"` // HH:MM
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields.
func NewEvent(id, date, timeOfDay, department string, createdAt time.Time) *Event {
	return &Event{
		ID:         id,
		Date:       date,
		Time:       timeOfDay,
		Department: department,
		CreatedAt:  createdAt,
	}
}

// EventSummary is an event joined with its department defaults and the
// current registration count.
// swagger:model EventSummary
type EventSummary struct {
	EventID           string  `json:"event_id"`
	Date              string  `json:"date"`
	Time              string  `json:"time"`
	Department        string  `json:"department"`
	Fee               float64 `json:"fee"`
	MaxCapacity       int     `json:"max_capacity"`
	RegistrationCount int     `json:"registration_count"`
}

// EventListing is an EventSummary annotated for a particular viewer.
// Availability is the remaining-capacity percentage; nil when capacity is 0.
// swagger:model EventListing
type EventListing struct {
	EventSummary
	Availability *int   `json:"availability"`
	Registered   bool   `json:"registered"`
	Status       string `json:"status,omitempty"` // Upcoming or Past, on hosted listings
}

// EventDetails is the single-event view with the viewer's host flag.
// swagger:model EventDetails
type EventDetails struct {
	EventSummary
	Availability *int `json:"availability"`
	IsHost       bool `json:"is_host"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// CreateWithCreator inserts the event, its creator hosting row, and bumps
	// the creator's hosted-events counter in one transaction. Returns
	// ErrDuplicateEvent when the event ID is taken and ErrUnknownDepartment
	// when the department reference is invalid.
	CreateWithCreator(ctx context.Context, event *Event, creatorID string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListUpcoming returns summaries for events dated fromDate or later,
	// ascending by (date, time).
	ListUpcoming(ctx context.Context, fromDate string) ([]*EventSummary, error)
	// ListByCreator returns summaries for events the user created, ascending
	// by (date, time).
	ListByCreator(ctx context.Context, userID string) ([]*EventSummary, error)
	GetSummary(ctx context.Context, id string) (*EventSummary, error)
}

// QueryService provides the read-only aggregations over events and hostings.
type QueryService interface {
	ListUpcomingEvents(ctx context.Context, viewerID string) ([]*EventListing, error)
	ListUserRegistrations(ctx context.Context, userID string) ([]*RegistrationStatus, error)
	ListHostedEvents(ctx context.Context, userID string) ([]*EventListing, error)
	// GetRoster returns the participants of an event, sorted by user ID.
	// Only a creator of the event may view it; others get ErrForbidden.
	GetRoster(ctx context.Context, eventID, requesterID string) ([]*RosterEntry, error)
	GetEventDetails(ctx context.Context, eventID, viewerID string) (*EventDetails, error)
}
