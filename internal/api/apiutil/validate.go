package apiutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("isodate", validateISODate); err != nil {
			panic(fmt.Sprintf("register isodate validation: %v", err))
		}
		validate = v
	})
	return validate
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// ValidateStruct runs the struct's validate tags and returns FieldErrors
// named after the JSON fields.
func ValidateStruct(payload any) error {
	err := validatorInstance().Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	return translateValidationErrors(validationErrs)
}

func translateValidationErrors(errs validator.ValidationErrors) FieldErrors {
	fieldErrs := make(FieldErrors, 0, len(errs))
	for _, err := range errs {
		field := err.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}

		reason := err.Error()
		switch err.Tag() {
		case "required":
			reason = "is required"
		case "max":
			reason = fmt.Sprintf("must be at most %s characters", err.Param())
		case "min":
			reason = fmt.Sprintf("must be at least %s", err.Param())
		case "gte":
			reason = fmt.Sprintf("must be at least %s", err.Param())
		case "lte":
			reason = fmt.Sprintf("must be at most %s", err.Param())
		case "hexcolor":
			reason = "must be a hex color"
		case "isodate":
			reason = "must be a valid YYYY-MM-DD date"
		case "oneof":
			reason = fmt.Sprintf("must be one of: %s", err.Param())
		}
		fieldErrs = append(fieldErrs, FieldError{Field: field, Reason: reason})
	}
	return fieldErrs
}
