package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under their JSON names.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(domain.ValidationErrors, 0, len(ve))
			for _, fe := range ve {
				out = append(out, fieldError(fe))
			}
			return out
		}
		return err
	}
	return nil
}

// fieldError converts a single validator.FieldError into a domain field error.
func fieldError(fe validator.FieldError) *domain.FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewFieldError(field, domain.ErrFieldRequired, "This field is required.")
	case "email":
		return domain.NewFieldError(field, domain.ErrInvalidEmail, "Enter a valid email address.")
	case "max":
		return domain.NewFieldError(field, errInvalidField, fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param()))
	default:
		return domain.NewFieldError(field, errInvalidField, fmt.Sprintf("%s failed validation (%s)", field, fe.Tag()))
	}
}

var errInvalidField = errors.New("invalid field")
