package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// eventIDRegex matches an event ID: the letter E followed by three digits.
var eventIDRegex = regexp.MustCompile(`^E[0-9]{3}$`)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	EventID    string `json:"event_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
	Department string `json:"department"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.EventID) == "" {
		errs = append(errs, "event_id is required")
	} else if !eventIDRegex.MatchString(strings.TrimSpace(c.EventID)) {
		errs = append(errs, "event_id must be the letter E followed by three digits")
	}
	if strings.TrimSpace(c.Date) == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(domain.DateLayout, strings.TrimSpace(c.Date)); err != nil {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(c.Time) == "" {
		errs = append(errs, "time is required")
	} else if _, err := time.Parse(domain.TimeLayout, strings.TrimSpace(c.Time)); err != nil {
		errs = append(errs, "time must be HH:MM (24-hour)")
	}
	if strings.TrimSpace(c.Department) == "" {
		errs = append(errs, "department is required")
	}
	return errs
}

type EventController struct {
	Logger        *slog.Logger
	Registrations domain.RegistrationService
	Queries       domain.QueryService
}

func NewEventController(logger *slog.Logger, registrations domain.RegistrationService, queries domain.QueryService) *EventController {
	return &EventController{
		Logger:        logger,
		Registrations: registrations,
		Queries:       queries,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event with a caller-chosen ID, a strictly future date, a time, and an existing department. Fee and capacity come from the department. The authenticated user must have a host or admin account and becomes the event's creator.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	in := domain.CreateEventInput{
		EventID:    req.EventID,
		Date:       req.Date,
		Time:       req.Time,
		Department: req.Department,
	}
	event, err := c.Registrations.CreateEvent(r.Context(), in, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "host account required")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event data")
		case errors.Is(err, domain.ErrDuplicateEvent):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event id already exists")
		case errors.Is(err, domain.ErrUnknownDepartment):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, "unknown department")
		case errors.Is(err, domain.ErrUnavailable):
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "storage unavailable, try again")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List upcoming events
// @Description Returns events dated today or later, sorted by date and time. Each listing carries the fee, capacity, remaining-availability percentage, and whether the authenticated user is registered.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the event listings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	listings, err := c.Queries.ListUpcomingEvents(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listings)
}

// ListHostedEvents godoc
// @Summary List events created by the authenticated user
// @Description Returns every event the user created, annotated with registration counts, availability, and an Upcoming/Past status.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the hosted event listings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/hosted [get]
func (c *EventController) ListHostedEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	listings, err := c.Queries.ListHostedEvents(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listings)
}

// GetEvent godoc
// @Summary Get a single event
// @Description Returns the event with fee, capacity, registration count, availability percentage, and whether the viewer created it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (E followed by three digits)"
// @Success 200 {object} helpers.APIResponse "data contains the event details"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	details, err := c.Queries.GetEventDetails(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// GetRoster godoc
// @Summary Get the participant roster of an event
// @Description Returns every participant of the event with department and role, sorted by user ID. Only the event's creator may view it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (E followed by three digits)"
// @Success 200 {object} helpers.APIResponse "data contains the roster entries"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/roster [get]
func (c *EventController) GetRoster(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	roster, err := c.Queries.GetRoster(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the event creator may view the roster")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roster)
}
