package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneNumberPattern = regexp.MustCompile(`^(\+98|0)?9\d{9}$`)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneNumberPattern.MatchString(fl.Field().String())
	})

	return v
}

// validateStruct returns a client-facing message for the first failing field.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("invalid validation error: %w", err)
	}

	first := validationErrors[0]
	field := first.Field()
	switch first.Tag() {
	case "required":
		return fmt.Errorf("field '%s' is required", field)
	case "phone":
		return fmt.Errorf("field '%s' must be a valid phone number", field)
	case "numeric":
		return fmt.Errorf("field '%s' must contain only digits", field)
	case "max":
		return fmt.Errorf("field '%s' must be at most %s characters long", field, first.Param())
	default:
		return fmt.Errorf("field '%s' validation failed on tag '%s'", field, first.Tag())
	}
}
