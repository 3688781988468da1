package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the Italian labels shown on the contact form
var FieldLabels = map[string]string{
	"Nome":      "Nome",
	"Email":     "Email",
	"Telefono":  "Telefono",
	"Messaggio": "Messaggio",
}

// MalformedRequestMessage is returned for bodies that could not be decoded.
// The decoder error stays in the server log.
const MalformedRequestMessage = "Richiesta non valida: formato JSON non corretto"

// IsValidationError reports whether err carries per-field validation failures.
func IsValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{MalformedRequestMessage}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s: Campo obbligatorio", label)

	case "email":
		return fmt.Sprintf("%s: Formato email non valido", label)

	case "max":
		return fmt.Sprintf("%s: Massimo %s caratteri", label, param)

	default:
		return fmt.Sprintf("%s: Valore non valido (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
