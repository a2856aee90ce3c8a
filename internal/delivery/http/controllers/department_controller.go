package controllers

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

type DepartmentController struct {
	Logger      *slog.Logger
	Departments domain.DepartmentRepository
}

func NewDepartmentController(logger *slog.Logger, departments domain.DepartmentRepository) *DepartmentController {
	return &DepartmentController{
		Logger:      logger,
		Departments: departments,
	}
}

// List godoc
// @Summary List departments
// @Description Returns all departments with their default fee and capacity, sorted by name.
// @Tags departments
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the departments"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /departments [get]
func (c *DepartmentController) List(w http.ResponseWriter, r *http.Request) {
	departments, err := c.Departments.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, departments)
}
