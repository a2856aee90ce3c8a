package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmationEmailData holds data for the registration confirmation email.
type RegistrationConfirmationEmailData struct {
	Email      string
	UserID     string
	EventID    string
	Date       string
	Time       string
	Department string
}

// EventCreatedEmailData holds data for the event-created email sent to the creator.
type EventCreatedEmailData struct {
	Email      string
	UserID     string
	EventID    string
	Date       string
	Time       string
	Department string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
	SendEventCreated(ctx context.Context, data *EventCreatedEmailData) error
}
