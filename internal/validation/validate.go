package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report violations under the wire field name, not the Go field name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates a tagged request struct and returns a field→message map,
// empty when the struct is valid.
func Struct(s any) map[string]any {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]any{"_": err.Error()}
	}

	details := make(map[string]any, len(violations))
	for _, violation := range violations {
		details[violation.Field()] = message(violation)
	}
	return details
}

func message(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", violation.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", violation.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(violation.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", violation.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", violation.Param())
	case "uuid":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed %s validation", violation.Tag())
	}
}
