package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"roost/pkg/logger"
	"roost/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ContactValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewContactValidator(log *logger.Logger) *ContactValidator {
	return &ContactValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ContactValidator) Validate(contact *model.Contact) error {
	if err := v.validate.Struct(contact); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ContactValidator) ValidateStatus(status string) error {
	switch status {
	case model.ContactPending, model.ContactInProgress, model.ContactResolved:
		return nil
	}
	return ValidationErrors{{
		Field:   "Status",
		Message: fmt.Sprintf("status must be one of: %s %s %s", model.ContactPending, model.ContactInProgress, model.ContactResolved),
	}}
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
