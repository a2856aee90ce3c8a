package services

import (
	"context"
	"fmt"
	"log"

	"campusevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRegistrationConfirmation sends the registration confirmation email using
// the "registration_confirmation" template and the given data.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("registration_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render registration_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send registration confirmation email: %w", err)
	}
	log.Printf("[EMAIL] Registration confirmation sent to %s", data.Email)
	return nil
}

// SendEventCreated sends the event-created email to the event's creator using
// the "event_created" template.
func (s *emailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	if data == nil {
		return fmt.Errorf("event created email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_created", data)
	if err != nil {
		return fmt.Errorf("failed to render event_created template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event created email: %w", err)
	}
	log.Printf("[EMAIL] Event created email sent to %s", data.Email)
	return nil
}
