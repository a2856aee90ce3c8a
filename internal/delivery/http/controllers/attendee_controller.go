package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type AttendeeController struct {
	Logger        *slog.Logger
	Registrations domain.RegistrationService
	Queries       domain.QueryService
}

func NewAttendeeController(logger *slog.Logger, registrations domain.RegistrationService, queries domain.QueryService) *AttendeeController {
	return &AttendeeController{
		Logger:        logger,
		Registrations: registrations,
		Queries:       queries,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated user for the event. Fails when the event is unknown, already past, already registered by the user, or at capacity.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (E followed by three digits)"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /events/{eventID}/registrations [post]
func (c *AttendeeController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	hosting, err := c.Registrations.Register(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrEventPassed):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "event has already taken place")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered for this event")
		case errors.Is(err, domain.ErrEventFull):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event is at capacity")
		case errors.Is(err, domain.ErrUnavailable):
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "storage unavailable, try again")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, hosting)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Removes the authenticated user's registration for the event. Fails when the user is not registered or the event has already taken place.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (E followed by three digits)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /events/{eventID}/registrations [delete]
func (c *AttendeeController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Registrations.Cancel(r.Context(), eventID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		case errors.Is(err, domain.ErrNotRegistered):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not registered for this event")
		case errors.Is(err, domain.ErrEventPassed):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "event has already taken place")
		case errors.Is(err, domain.ErrUnavailable):
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "storage unavailable, try again")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "registration cancelled"})
}

// ListRegistrations godoc
// @Summary List the authenticated user's registrations
// @Description Returns every event the user participates in, with fee, role, and an Upcoming/Past status.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *AttendeeController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Queries.ListUserRegistrations(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
