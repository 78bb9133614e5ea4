package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator that reports fields
// by their configuration or JSON names.
type Validator struct {
	validate *validator.Validate
}

// FieldViolation describes one failed validation rule.
type FieldViolation struct {
	Field string
	Rule  string
	Value any
}

// ValidationError lists every violation found in one value.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", v.Field, v.Rule, v.Value)
	}
	return fmt.Sprintf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// NewValidator creates a validator that names fields after their
// mapstructure or json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)

	return &Validator{validate: v}
}

func tagName(field reflect.StructField) string {
	for _, key := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// Validate validates a struct, or a pointer to one, using validation tags.
// Values of other kinds are accepted as is.
func (v *Validator) Validate(i any) error {
	rv := reflect.ValueOf(i)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(validationErrs))}
	for _, e := range validationErrs {
		field := e.Namespace()
		// drop the root struct name
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out.Violations = append(out.Violations, FieldViolation{
			Field: field,
			Rule:  e.Tag(),
			Value: e.Value(),
		})
	}
	return out
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
