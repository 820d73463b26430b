// Package validation runs go-playground validator rules and reports failures
// as field errors keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate     = newValidator()
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}[0-9]$`)
	digitPattern = regexp.MustCompile(`^[0-9]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitPattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates dest. Failures come back as a CodeValidation error carrying
// per-field messages.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return Format(err)
	}
	return nil
}

func Format(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := pkgerrors.FieldErrors{}
		for _, fieldErr := range errs {
			fields[fieldErr.Field()] = append(fields[fieldErr.Field()], Message(fieldErr))
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithFields(fields)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "phone":
		return "must be a valid phone number"
	case "digits":
		return "must contain only digits"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	}
	return "is invalid"
}
