package validators

import (
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

// Register adds every custom validation tag used by the request contracts.
func Register(validate *validator.Validate) error {
	return validate.RegisterValidation("notblank", NotBlank)
}

// NotBlank rejects strings made only of whitespace. Non-string fields
// always fail.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}
