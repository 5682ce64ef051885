package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/go-playground/validator/v10"
)

// DraftValidator runs the checks a booking must pass before it is submitted.
// It only reports; the draft is never touched.
type DraftValidator struct {
	validate *validator.Validate
}

func NewDraftValidator() *DraftValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &DraftValidator{validate: v}
}

// Validate returns a *domain.ValidationError keyed by JSON path, or nil.
func (v *DraftValidator) Validate(d *domain.BookingDraft) error {
	err := v.validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe.Namespace())] = message(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldPath strips the root struct name: "BookingDraft.travellers[0].firstName"
// becomes "travellers[0].firstName".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must be a number"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
