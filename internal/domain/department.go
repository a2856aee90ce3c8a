package domain

import "context"

// Department is static reference data. An event inherits its fee and capacity
// from its department.
// swagger:model Department
type Department struct {
	Name               string  `json:"name"`
	DefaultFee         float64 `json:"default_fee"`
	DefaultMaxCapacity int     `json:"default_max_capacity"`
}

// DepartmentRepository defines the interface for department storage.
type DepartmentRepository interface {
	GetByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
