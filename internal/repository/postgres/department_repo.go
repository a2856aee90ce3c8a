package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

type departmentRepository struct {
	DB *sql.DB
}

func NewDepartmentRepository(db *sql.DB) domain.DepartmentRepository {
	return &departmentRepository{DB: db}
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	query := `
		SELECT name, default_fee, default_max_capacity
		FROM departments
		WHERE name = $1
	`
	d := &domain.Department{}
	err := withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, name).
			Scan(&d.Name, &d.DefaultFee, &d.DefaultMaxCapacity)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	query := `
		SELECT name, default_fee, default_max_capacity
		FROM departments
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*domain.Department, 0)
	for rows.Next() {
		d := &domain.Department{}
		if err := rows.Scan(&d.Name, &d.DefaultFee, &d.DefaultMaxCapacity); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
