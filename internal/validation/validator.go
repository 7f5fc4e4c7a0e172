// Package validation checks configuration and request structs with validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
// A Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// shared is built on first use. validator.Validate caches struct metadata
// per instance, so callers without an injected Validator use this one.
//
//nolint:gochecknoglobals // Process-wide cache
var shared = sync.OnceValue(New)

// Shared returns the process-wide Validator.
func Shared() *Validator {
	return shared()
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their yaml name (views file), then json name (API).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"yaml", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// genrecode accepts one of the six genre codes, or empty.
	_ = v.RegisterValidation("genrecode", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.GenreCode(s).Valid()
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must be greater than or equal to " + e.Param()
	case "genrecode":
		return "must be one of: BIO DEV PHI POE RHE THE"
	case "unique":
		return "must not contain duplicates"
	default:
		return "is invalid"
	}
}
