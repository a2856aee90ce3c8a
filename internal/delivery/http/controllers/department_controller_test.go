package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/domain"
)

type stubDepartmentRepository struct {
	departments []*domain.Department
	err         error
}

func (s *stubDepartmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	for _, d := range s.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubDepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.departments, nil
}

func TestDepartmentController_List(t *testing.T) {
	repo := &stubDepartmentRepository{departments: []*domain.Department{
		{Name: "CS", DefaultFee: 100, DefaultMaxCapacity: 30},
		{Name: "EE", DefaultFee: 50, DefaultMaxCapacity: 40},
	}}
	ctrl := NewDepartmentController(testLogger(), repo)

	req := httptest.NewRequest(http.MethodGet, "/departments", nil)
	w := httptest.NewRecorder()
	ctrl.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	resp := decodeEnvelope(t, w)
	items, ok := resp.Data.([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 departments, got %v", resp.Data)
	}
}

func TestDepartmentController_List_Error(t *testing.T) {
	ctrl := NewDepartmentController(testLogger(), &stubDepartmentRepository{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/departments", nil)
	w := httptest.NewRecorder()
	ctrl.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
