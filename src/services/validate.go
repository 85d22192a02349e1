package services

import (
	"errors"
	"reflect"
	"strings"

	"budgetit-server/src/apperr"

	"github.com/go-playground/validator/v10"
)

const msgMissingFields = "Missing required fields"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks req's validate tags. A missing required field
// yields missingMsg; any other failure names the first offending field.
func validateRequest(req any, missingMsg string) error {
	return reportInvalid(validate.Struct(req), missingMsg)
}

// validateFields is validateRequest limited to the named struct fields.
func validateFields(req any, missingMsg string, fields ...string) error {
	return reportInvalid(validate.StructPartial(req, fields...), missingMsg)
}

func reportInvalid(err error, missingMsg string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.KindInternal, "validation failed", err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return apperr.Validation(missingMsg)
		}
	}
	return apperr.Validation("invalid " + fieldErrs[0].Field())
}
