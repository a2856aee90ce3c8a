package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

type credentialRepository struct {
	DB *sql.DB
}

func NewCredentialRepository(db *sql.DB) domain.CredentialRepository {
	return &credentialRepository{DB: db}
}

func (r *credentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	query := `
		INSERT INTO credentials (user_id, password_hash, salt, account_type)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, c.UserID, c.PasswordHash, c.Salt, c.AccountType)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	query := `
		SELECT user_id, password_hash, salt, account_type
		FROM credentials
		WHERE user_id = $1
	`
	c := &domain.Credential{}
	err := withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, userID).
			Scan(&c.UserID, &c.PasswordHash, &c.Salt, &c.AccountType)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
