package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"plumberf/internal/api/errors"
	"plumberf/internal/app/model"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the DTOs and makes
// validation errors report json field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return model.ValidSlug(fl.Field().String())
		})
	})
}

// ValidateRequest binds the JSON body and runs struct tag and domain validation.
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("Validation failed", fieldErrors(err, "request", "invalid JSON format"))
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery binds and validates query parameters.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		apiErr := errors.NewBadRequestError("Invalid query parameters")
		apiErr.Details = fieldErrors(err, "query", "invalid query parameters")
		return apiErr
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func fieldErrors(err error, fallbackField, fallbackMessage string) map[string]string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{fallbackField: fallbackMessage}
	}

	details := make(map[string]string, len(validationErrs))
	for _, fieldError := range validationErrs {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			details[field] = "is required"
		case "min", "gte", "gt":
			details[field] = "is too small"
		case "max", "lte", "lt":
			details[field] = "is too large"
		case "oneof":
			details[field] = "must be one of: " + fieldError.Param()
		case "slug":
			details[field] = "must be lowercase letters, digits and single hyphens"
		case "url":
			details[field] = "must be a URL"
		default:
			details[field] = "is invalid"
		}
	}
	return details
}
