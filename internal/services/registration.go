package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/domain"
)

var eventIDRegexp = regexp.MustCompile(`^E[0-9]{3}$`)

type registrationService struct {
	eventRepo      domain.EventRepository
	hostingRepo    domain.HostingRepository
	userRepo       domain.UserRepository
	departmentRepo domain.DepartmentRepository
	policy         domain.AccessPolicy
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewRegistrationService creates the registration state-transition engine.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	hostingRepo domain.HostingRepository,
	userRepo domain.UserRepository,
	departmentRepo domain.DepartmentRepository,
	policy domain.AccessPolicy,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:      eventRepo,
		hostingRepo:    hostingRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		policy:         policy,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.Hosting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !eventIDRegexp.MatchString(eventID) {
		return nil, domain.ErrInvalidInput
	}

	today := s.now().Format(domain.DateLayout)
	hosting, err := s.hostingRepo.Register(ctx, eventID, userID, today)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrEventPassed),
			errors.Is(err, domain.ErrAlreadyRegistered),
			errors.Is(err, domain.ErrEventFull),
			errors.Is(err, domain.ErrUnavailable):
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.sendRegistrationConfirmation(ctx, hosting)
	return hosting, nil
}

// sendRegistrationConfirmation emails the attendee. Best effort: a mail
// failure never fails the registration itself.
func (s *registrationService) sendRegistrationConfirmation(ctx context.Context, hosting *domain.Hosting) {
	user, err := s.userRepo.GetByID(ctx, hosting.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "user_id", hosting.UserID, "err", err)
		return
	}
	event, err := s.eventRepo.GetByID(ctx, hosting.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "event_id", hosting.EventID, "err", err)
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:      user.Email,
		UserID:     user.ID,
		EventID:    event.ID,
		Date:       event.Date,
		Time:       event.Time,
		Department: event.Department,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "user_id", user.ID, "event_id", event.ID, "err", err)
	}
}

func (s *registrationService) Cancel(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !eventIDRegexp.MatchString(eventID) {
		return domain.ErrInvalidInput
	}

	today := s.now().Format(domain.DateLayout)
	if err := s.hostingRepo.Cancel(ctx, eventID, userID, today); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotRegistered),
			errors.Is(err, domain.ErrEventPassed),
			errors.Is(err, domain.ErrUnavailable):
			return err
		}
		return fmt.Errorf("cancel registration: %w", err)
	}
	return nil
}

func (s *registrationService) CreateEvent(ctx context.Context, in domain.CreateEventInput, creatorID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.policy.RequireHost(ctx, creatorID); err != nil {
		return nil, err
	}

	in.EventID = strings.TrimSpace(in.EventID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Department = strings.TrimSpace(in.Department)
	if in.EventID == "" || in.Date == "" || in.Time == "" || in.Department == "" {
		return nil, domain.ErrInvalidInput
	}
	if !eventIDRegexp.MatchString(in.EventID) {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.Parse(domain.DateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	// Event dates must be strictly in the future.
	today, _ := time.Parse(domain.DateLayout, s.now().Format(domain.DateLayout))
	if !date.After(today) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := time.Parse(domain.TimeLayout, in.Time); err != nil {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.eventRepo.GetByID(ctx, in.EventID); err == nil {
		return nil, domain.ErrDuplicateEvent
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check event id: %w", err)
	}

	if _, err := s.departmentRepo.GetByName(ctx, in.Department); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownDepartment
		}
		return nil, fmt.Errorf("get department: %w", err)
	}

	event := domain.NewEvent(in.EventID, in.Date, in.Time, in.Department, s.now())
	if err := s.eventRepo.CreateWithCreator(ctx, event, creatorID); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEvent),
			errors.Is(err, domain.ErrUnknownDepartment),
			errors.Is(err, domain.ErrUnavailable):
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.sendEventCreated(ctx, event, creatorID)
	return event, nil
}

func (s *registrationService) sendEventCreated(ctx context.Context, event *domain.Event, creatorID string) {
	user, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		s.logger.WarnContext(ctx, "event-created email skipped", "user_id", creatorID, "err", err)
		return
	}
	data := &domain.EventCreatedEmailData{
		Email:      user.Email,
		UserID:     user.ID,
		EventID:    event.ID,
		Date:       event.Date,
		Time:       event.Time,
		Department: event.Department,
	}
	if err := s.emailService.SendEventCreated(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "event-created email failed", "user_id", user.ID, "event_id", event.ID, "err", err)
	}
}
