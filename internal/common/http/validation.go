package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of a 422 validation response:
// {message, field, rejectedValue}, in struct field order.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
	Value   any    `json:"rejectedValue"`
}

type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct returns nil when s passes its validate tags, otherwise the ordered
// list of field errors. Password values are never echoed back.
func (v *Validator) Struct(s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: "invalid request"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		var value any = fe.Value()
		if strings.Contains(field, "password") {
			value = nil
		}
		out = append(out, FieldError{
			Message: messageFor(field, fe),
			Field:   field,
			Value:   value,
		})
	}
	return out
}

func WriteValidationErrors(w http.ResponseWriter, errs []FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Errors: errs})
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "alphanum":
		return fmt.Sprintf("%s contains non alphanumeric characters - not allowed", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s does not appear to be valid", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
