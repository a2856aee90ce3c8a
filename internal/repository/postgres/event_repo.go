package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

// summaryColumns joins an event with its department defaults and the live
// registration count. Hostings of both roles count against capacity.
const summaryColumns = `
	e.event_id,
	e.date::text,
	to_char(e.time, 'HH24:MI'),
	e.department,
	d.default_fee,
	d.default_max_capacity,
	(SELECT COUNT(*) FROM hostings h WHERE h.event_id = e.event_id) AS registration_count
`

func (r *eventRepository) CreateWithCreator(ctx context.Context, e *domain.Event, creatorID string) error {
	return withRetry(ctx, func() error {
		return r.createWithCreator(ctx, e, creatorID)
	})
}

// createWithCreator inserts the event, the creator hosting row, and the
// hosted-events counter bump in one transaction. An event must never exist
// without its creator hosting, so any failure rolls back all three writes.
func (r *eventRepository) createWithCreator(ctx context.Context, e *domain.Event, creatorID string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (event_id, date, time, department, created_at)
		VALUES ($1, $2::date, $3::time, $4, $5)
	`, e.ID, e.Date, e.Time, e.Department, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEvent
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownDepartment
		}
		return fmt.Errorf("insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hostings (event_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, creatorID, domain.HostingRoleCreator, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert creator hosting: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET events_hosted = events_hosted + 1 WHERE user_id = $1
	`, creatorID)
	if err != nil {
		return fmt.Errorf("increment events_hosted: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT event_id, date::text, to_char(time, 'HH24:MI'), department, created_at
		FROM events
		WHERE event_id = $1
	`
	e := &domain.Event{}
	err := withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, id).
			Scan(&e.ID, &e.Date, &e.Time, &e.Department, &e.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, fromDate string) ([]*domain.EventSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM events e
		JOIN departments d ON d.name = e.department
		WHERE e.date >= $1::date
		ORDER BY e.date, e.time
	`
	return r.querySummaries(ctx, query, fromDate)
}

func (r *eventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.EventSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM events e
		JOIN departments d ON d.name = e.department
		JOIN hostings h ON h.event_id = e.event_id
		WHERE h.user_id = $1 AND h.role = $2
		ORDER BY e.date, e.time
	`
	return r.querySummaries(ctx, query, userID, domain.HostingRoleCreator)
}

func (r *eventRepository) GetSummary(ctx context.Context, id string) (*domain.EventSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM events e
		JOIN departments d ON d.name = e.department
		WHERE e.event_id = $1
	`
	s := &domain.EventSummary{}
	err := withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, id).Scan(
			&s.EventID, &s.Date, &s.Time, &s.Department,
			&s.Fee, &s.MaxCapacity, &s.RegistrationCount,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *eventRepository) querySummaries(ctx context.Context, query string, args ...any) ([]*domain.EventSummary, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.EventSummary, 0)
	for rows.Next() {
		s := &domain.EventSummary{}
		if err := rows.Scan(
			&s.EventID, &s.Date, &s.Time, &s.Department,
			&s.Fee, &s.MaxCapacity, &s.RegistrationCount,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
