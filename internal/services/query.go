package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"campusevents/internal/domain"
)

const (
	statusUpcoming = "Upcoming"
	statusPast     = "Past"
)

type queryService struct {
	eventRepo      domain.EventRepository
	hostingRepo    domain.HostingRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewQueryService creates the read-only aggregation service.
func NewQueryService(
	eventRepo domain.EventRepository,
	hostingRepo domain.HostingRepository,
	timeout time.Duration,
) domain.QueryService {
	return &queryService{
		eventRepo:      eventRepo,
		hostingRepo:    hostingRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// availability returns the remaining-capacity percentage, nil when capacity
// is zero.
func availability(capacity, registered int) *int {
	if capacity <= 0 {
		return nil
	}
	pct := int(math.Round(float64(capacity-registered) / float64(capacity) * 100))
	return &pct
}

func (s *queryService) ListUpcomingEvents(ctx context.Context, viewerID string) ([]*domain.EventListing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	today := s.now().Format(domain.DateLayout)
	summaries, err := s.eventRepo.ListUpcoming(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	registered := make(map[string]struct{})
	if viewerID != "" {
		regs, err := s.hostingRepo.ListByUser(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("list viewer registrations: %w", err)
		}
		for _, reg := range regs {
			registered[reg.EventID] = struct{}{}
		}
	}

	listings := make([]*domain.EventListing, 0, len(summaries))
	for _, sum := range summaries {
		_, isRegistered := registered[sum.EventID]
		listings = append(listings, &domain.EventListing{
			EventSummary: *sum,
			Availability: availability(sum.MaxCapacity, sum.RegistrationCount),
			Registered:   isRegistered,
		})
	}
	return listings, nil
}

func (s *queryService) ListUserRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.hostingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	today := s.now().Format(domain.DateLayout)
	result := make([]*domain.RegistrationStatus, 0, len(regs))
	for _, reg := range regs {
		status := statusUpcoming
		if reg.Date < today {
			status = statusPast
		}
		result = append(result, &domain.RegistrationStatus{
			UserRegistration: *reg,
			Status:           status,
		})
	}
	return result, nil
}

func (s *queryService) ListHostedEvents(ctx context.Context, userID string) ([]*domain.EventListing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summaries, err := s.eventRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list hosted events: %w", err)
	}

	today := s.now().Format(domain.DateLayout)
	listings := make([]*domain.EventListing, 0, len(summaries))
	for _, sum := range summaries {
		status := statusUpcoming
		if sum.Date < today {
			status = statusPast
		}
		listings = append(listings, &domain.EventListing{
			EventSummary: *sum,
			Availability: availability(sum.MaxCapacity, sum.RegistrationCount),
			Registered:   true,
			Status:       status,
		})
	}
	return listings, nil
}

func (s *queryService) GetRoster(ctx context.Context, eventID, requesterID string) ([]*domain.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Only the event's creator may view the roster.
	hosting, err := s.hostingRepo.GetByEventAndUser(ctx, eventID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get requester hosting: %w", err)
	}
	if hosting.Role != domain.HostingRoleCreator {
		return nil, domain.ErrForbidden
	}

	roster, err := s.hostingRepo.ListRoster(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return roster, nil
}

func (s *queryService) GetEventDetails(ctx context.Context, eventID, viewerID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sum, err := s.eventRepo.GetSummary(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event summary: %w", err)
	}

	isHost := false
	if viewerID != "" {
		hosting, err := s.hostingRepo.GetByEventAndUser(ctx, eventID, viewerID)
		if err == nil {
			isHost = hosting.Role == domain.HostingRoleCreator
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get viewer hosting: %w", err)
		}
	}

	return &domain.EventDetails{
		EventSummary: *sum,
		Availability: availability(sum.MaxCapacity, sum.RegistrationCount),
		IsHost:       isHost,
	}, nil
}
