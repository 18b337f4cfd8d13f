// Package validation turns validator/v10 failures into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned by Struct when at least one field failed.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Messages maps "field.tag" (or a bare "tag") to a message. A %s verb in the
// message receives the tag parameter.
type Messages map[string]string

var defaultMessages = Messages{
	"email.email":                "Please enter a valid email address.",
	"email.required":             "Please enter a valid email address.",
	"displayName.min":            "Display name must be at least %s characters.",
	"password.min":               "Password must be at least %s characters.",
	"confirmPassword.eqfield":    "Passwords do not match",
	"preferences.language.oneof": "Invalid language. Expected one of: %s",

	"required": "Required",
	"min":      "Must be at least %s characters.",
	"max":      "Must be at most %s characters.",
	"email":    "Invalid email",
	"oneof":    "Invalid value. Expected one of: %s",
	"eqfield":  "Does not match %s",
}

type Validator struct {
	validate *validator.Validate
	messages Messages
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v, messages: defaultMessages}
}

// Struct validates s. The returned error is nil or an Errors value.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{Field: field, Message: v.message(field, fe)})
	}
	return out
}

func (v *Validator) message(field string, fe validator.FieldError) string {
	tmpl, ok := v.messages[field+"."+fe.Tag()]
	if !ok {
		tmpl, ok = v.messages[fe.Tag()]
	}
	if !ok {
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// FieldErrors unwraps err into its field list, or nil if it is not a
// validation failure.
func FieldErrors(err error) []FieldError {
	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}
