// Package validation validates catalog records and reader requests with validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a VALIDATION domain error whose details
// map each failing field to a readable message.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "validation failed")
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[fieldPath(e)] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

// fieldPath drops the root struct name so nested fields read "genres[0]" rather than "Book.genres[0]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min":
		return fmt.Sprintf("must be at least %s %s", e.Param(), unit(e.Kind()))
	case "max":
		return fmt.Sprintf("must not exceed %s %s", e.Param(), unit(e.Kind()))
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "unique":
		return "must not contain duplicates"
	default:
		return "is invalid"
	}
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	case reflect.String:
		return "characters"
	default:
		return ""
	}
}
