// Package validation wraps go-playground/validator and converts its field
// errors into API validation details.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/symposium-service/internal/domain"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validator validates request DTOs.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the service's custom tags registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

func (v *Validator) registerRules() {
	_ = v.validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("event_level", func(fl validator.FieldLevel) bool {
		return domain.EventLevel(fl.Field().String()).Valid()
	})
	_ = v.validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Struct validates s and returns a VALIDATION_FAILED DomainError listing
// every failing field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid request", nil)
	}
	return apperrors.NewValidationError("invalid request", ToDetails(fieldErrs))
}

// UUID checks that raw is a UUID, reporting field on failure.
func (v *Validator) UUID(field, raw string) error {
	if err := v.validate.Var(raw, "required,uuid"); err != nil {
		return apperrors.NewValidationError("invalid identifier", []apperrors.ValidationDetail{
			{Field: field, Message: "must be a valid UUID"},
		})
	}
	return nil
}

// ToDetails converts validator field errors into API details.
func ToDetails(errs validator.ValidationErrors) []apperrors.ValidationDetail {
	details := make([]apperrors.ValidationDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, apperrors.ValidationDetail{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return details
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "event_level":
		return "must be one of: beginner intermediate advanced"
	case "role":
		return "must be one of: organizer participant"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
