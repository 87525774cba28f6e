package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"clinic-scheduler/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator registers the scheduling formats: date (yyyy-MM-dd) and
// clock (HH:mm or HH:mm:ss), plus notblank for free text that must carry
// more than whitespace. Field names in messages use the json tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if _, err := time.Parse(timeLayout, s); err == nil {
			return true
		}
		_, err := time.Parse(shortTimeLayout, s)
		return err == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Check validates i and returns an apperror validation error carrying the
// per-field messages.
func (cv *CustomValidator) Check(i interface{}) error {
	if err := cv.Validate(i); err != nil {
		return apperror.ValidationFields("Validation failed", cv.FormatValidationErrors(err))
	}
	return nil
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required", "notblank":
				errs[field] = field + " is required"
			case "required_if":
				errs[field] = field + " is required when " + strings.ReplaceAll(e.Param(), " ", " is ")
			case "email":
				errs[field] = field + " must be a valid email address"
			case "min":
				errs[field] = field + " must be at least " + e.Param() + unit(e)
			case "max":
				errs[field] = field + " must be at most " + e.Param() + unit(e)
			case "gte":
				errs[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errs[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errs[field] = field + " must be one of: " + e.Param()
			case "date":
				errs[field] = field + " must be a date in yyyy-MM-dd format"
			case "clock":
				errs[field] = field + " must be a time in HH:mm:ss format"
			case "url":
				errs[field] = field + " must be a valid URL"
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}

func unit(e validator.FieldError) string {
	switch e.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
