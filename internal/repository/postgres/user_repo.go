package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (user_id, email, department, events_hosted, created_at)
		VALUES ($1, $2, $3, 0, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.Email, u.Department, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownDepartment
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT user_id, email, department, events_hosted, created_at
		FROM users
		WHERE user_id = $1
	`
	u := &domain.User{}
	err := withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, id).
			Scan(&u.ID, &u.Email, &u.Department, &u.EventsHosted, &u.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
