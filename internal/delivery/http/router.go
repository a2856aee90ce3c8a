package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	departmentController *controllers.DepartmentController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /me", auth(authController.Me))

	// Reference data
	mux.HandleFunc("GET /departments", departmentController.List)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListEvents))
	mux.HandleFunc("GET /events/hosted", auth(eventController.ListHostedEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("GET /events/{eventID}/roster", auth(eventController.GetRoster))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(attendeeController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(attendeeController.Cancel))
	mux.HandleFunc("GET /registrations", auth(attendeeController.ListRegistrations))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
