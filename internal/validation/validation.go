// Package validation binds and validates request payloads.
//
// Rules live in `validate:"..."` struct tags checked by go-playground/
// validator; failures come back as a 400 *errs.HTTPError carrying one
// FieldError per rejected field, named by its JSON key.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the process wide validator.
//
// Besides the built-in tags it knows `notblank` (rejects strings that are
// empty after trimming) and reports fields by their json name.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				name, _, _ = strings.Cut(field.Tag.Get("param"), ",")
			}
			return name
		})

		validate = v
	})
	return validate
}
