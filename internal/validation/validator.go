package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages line up with the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Struct checks s against its `validate` struct tags and returns the
// collected messages. The result is never nil so callers can keep adding.
// Decode errors carried by an embedded Decoded win over tag failures on the
// same field.
func Struct(s any) Errors {
	errs := Errors{}
	collect(errs, validate.Struct(s))

	if d, ok := s.(decodeErrorer); ok {
		errs.Merge(d.DecodeErrors())
	}
	return errs
}

func collect(errs Errors, err error) {
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("_", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
}

// Label turns a wire field name into the wording used in messages.
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", label, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
