package domain

import (
	"context"
	"errors"
	"fmt"

	"cip-network-backend/pkg/email"
	"cip-network-backend/pkg/ratelimit"
)

// ConfirmationMessage is returned for every accepted submission, whatever the delivery outcome.
const ConfirmationMessage = "Grazie per la tua richiesta! Ti contatteremo presto."

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Nome      string  `json:"nome" binding:"required,not_blank,max=200" example:"Mario Rossi" maxLength:"200"`
	Email     string  `json:"email" binding:"required,email,max=254" example:"mario.rossi@example.com" maxLength:"254"`
	Telefono  *string `json:"telefono" binding:"omitempty,max=50" example:"+39 333 1234567" maxLength:"50"`
	Messaggio string  `json:"messaggio" binding:"required,not_blank,max=5000" example:"Vorrei maggiori informazioni." maxLength:"5000"`
}

// Submission converts the validated request into the value passed to the usecase.
func (r ContactRequest) Submission() ContactSubmission {
	return ContactSubmission{
		Name:    r.Nome,
		Email:   r.Email,
		Phone:   r.Telefono,
		Message: r.Messaggio,
	}
}

// ContactSubmission is one validated contact request. Phone is nil when the client omitted it.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

// EmailData maps the submission to the notification payload. An absent phone becomes "".
func (s ContactSubmission) EmailData() email.ContactEmailData {
	phone := ""
	if s.Phone != nil {
		phone = *s.Phone
	}
	return email.ContactEmailData{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   phone,
		Message: s.Message,
	}
}

// ContactEcho is the part of the submission sent back to the client
type ContactEcho struct {
	Nome     string  `json:"nome"`
	Email    string  `json:"email"`
	Telefono *string `json:"telefono"`
}

// ContactResponse is the uniform result of an accepted submission.
type ContactResponse struct {
	Message string      `json:"message"`
	Data    ContactEcho `json:"data"`
	// RateLimit is the limiter decision, zero when the limiter was unavailable.
	RateLimit ratelimit.Result `json:"-"`
}

// ErrRateLimited is matched with errors.Is on errors returned by SubmitContact.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError carries the limiter decision of a rejected submission
type RateLimitError struct {
	Result ratelimit.Result
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d per window", e.Result.Limit)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ContactNotifier delivers a contact notification and reports whether it was sent.
type ContactNotifier interface {
	SendNotification(ctx context.Context, data email.ContactEmailData) bool
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitContact rate-limits the client, relays the submission and returns the uniform response.
	// The only error is *RateLimitError.
	SubmitContact(ctx context.Context, clientKey string, submission ContactSubmission) (*ContactResponse, error)
}
