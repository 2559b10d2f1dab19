package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/exercisetracker/internal"
)

const dayLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// validateStruct turns validator output into an ordered internal.ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &internal.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	return fieldMessageFor(fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
}

func fieldMessageFor(field, tag, value string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "numeric":
		return fmt.Sprintf("%s must be a number, got %q", field, value)
	case "number":
		return fmt.Sprintf("%s must be a non-negative integer, got %q", field, value)
	case "datetime":
		return fmt.Sprintf("%s must be a date in yyyy-mm-dd format, got %q", field, value)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, tag)
	}
}
