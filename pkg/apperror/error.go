package apperror

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid is a 400 carrying per-field messages for the client.
func Invalid(message string, details []string, err error) *AppError {
	appErr := New(http.StatusBadRequest, message, err)
	appErr.Details = details
	return appErr
}

func TooManyRequests(message string, err error) *AppError {
	return New(http.StatusTooManyRequests, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
