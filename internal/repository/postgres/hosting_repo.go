package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type hostingRepository struct {
	DB *sql.DB
}

func NewHostingRepository(db *sql.DB) domain.HostingRepository {
	return &hostingRepository{DB: db}
}

// Register runs the full registration transition in a single transaction.
//
// The event row is locked with SELECT ... FOR UPDATE before the duplicate and
// capacity checks, which serializes concurrent registrations for the same
// event: two near-simultaneous callers cannot both pass the capacity check
// when one slot remains. The hostings primary key is the last line of defense
// against duplicate rows; a unique violation on insert is reported as
// ErrAlreadyRegistered, not a storage fault.
func (r *hostingRepository) Register(ctx context.Context, eventID, userID, today string) (*domain.Hosting, error) {
	var hosting *domain.Hosting
	err := withRetry(ctx, func() error {
		var err error
		hosting, err = r.register(ctx, eventID, userID, today)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hosting, nil
}

func (r *hostingRepository) register(ctx context.Context, eventID, userID, today string) (_ *domain.Hosting, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row for the duration of the transaction.
	var eventDate string
	var capacity int
	err = tx.QueryRowContext(ctx, `
		SELECT e.date::text, d.default_max_capacity
		FROM events e
		JOIN departments d ON d.name = e.department
		WHERE e.event_id = $1
		FOR UPDATE OF e
	`, eventID).Scan(&eventDate, &capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	// Registration on the event's own date is allowed; ISO dates compare
	// correctly as strings.
	if eventDate < today {
		return nil, domain.ErrEventPassed
	}

	var dupCount int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM hostings WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&dupCount)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		return nil, domain.ErrAlreadyRegistered
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM hostings WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= capacity {
		return nil, domain.ErrEventFull
	}

	hosting := domain.NewHosting(eventID, userID, domain.HostingRoleAttendee, time.Now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO hostings (event_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, hosting.EventID, hosting.UserID, hosting.Role, hosting.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert hosting: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return hosting, nil
}

// Cancel deletes the hosting row after verifying it exists and the event has
// not passed, all within one transaction.
func (r *hostingRepository) Cancel(ctx context.Context, eventID, userID, today string) error {
	return withRetry(ctx, func() error {
		return r.cancel(ctx, eventID, userID, today)
	})
}

func (r *hostingRepository) cancel(ctx context.Context, eventID, userID, today string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var eventDate string
	err = tx.QueryRowContext(ctx, `
		SELECT e.date::text
		FROM hostings h
		JOIN events e ON e.event_id = h.event_id
		WHERE h.event_id = $1 AND h.user_id = $2
	`, eventID, userID).Scan(&eventDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("get registration: %w", err)
	}

	if eventDate < today {
		return domain.ErrEventPassed
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM hostings WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete hosting: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *hostingRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Hosting, error) {
	query := `
		SELECT event_id, user_id, role, created_at
		FROM hostings
		WHERE event_id = $1 AND user_id = $2
	`
	h := &domain.Hosting{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&h.EventID, &h.UserID, &h.Role, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *hostingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.UserRegistration, error) {
	query := `
		SELECT h.event_id, e.date::text, to_char(e.time, 'HH24:MI'), e.department,
		       d.default_fee, h.role, h.created_at
		FROM hostings h
		JOIN events e ON e.event_id = h.event_id
		JOIN departments d ON d.name = e.department
		WHERE h.user_id = $1
		ORDER BY e.date, e.time
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.UserRegistration, 0)
	for rows.Next() {
		reg := &domain.UserRegistration{}
		if err := rows.Scan(
			&reg.EventID, &reg.Date, &reg.Time, &reg.Department,
			&reg.Fee, &reg.Role, &reg.RegisteredAt,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *hostingRepository) ListRoster(ctx context.Context, eventID string) ([]*domain.RosterEntry, error) {
	query := `
		SELECT h.user_id, u.department, h.role
		FROM hostings h
		JOIN users u ON u.user_id = h.user_id
		WHERE h.event_id = $1
		ORDER BY h.user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.RosterEntry, 0)
	for rows.Next() {
		e := &domain.RosterEntry{}
		if err := rows.Scan(&e.UserID, &e.Department, &e.Role); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *hostingRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM hostings WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
