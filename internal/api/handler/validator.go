package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. Only the first failing
// field's message is surfaced, matching the API contract.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return errors.New(fieldError(ve[0]))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into the message the client
// renders next to the form field.
func fieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Name is required"
	case "Email":
		return "Valid email is required"
	case "Password":
		return "Password is required"
	case "Ids":
		return "Select at least one user"
	}

	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
