package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := RegisterValidators(validate); err != nil {
		panic(err)
	}
}

// RegisterValidators adds the contact specific rules to validate.
func RegisterValidators(validate *validator.Validate) error {
	// exactly one '@' with something on both sides
	err := validate.RegisterValidation("coarse_email", func(fl validator.FieldLevel) bool {
		local, domain, found := strings.Cut(fl.Field().String(), "@")
		if !found || strings.Contains(domain, "@") {
			return false
		}
		return local != "" && domain != ""
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	if err != nil {
		return err
	}

	return nil
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "coarse_email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "iso_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toValidationError converts validator output into a ValidationError.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		msgs = append(msgs, fieldMessage(fieldErr.Field(), fieldErr.Tag()))
	}

	return newValidationError(msgs...)
}

func failedTag(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0].Tag()
	}
	return ""
}
