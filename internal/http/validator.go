package http

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"kakeistat/internal/httpx"
)

var validate *validator.Validate

var itemCodePattern = regexp.MustCompile(`^[0-9A-Za-z]{1,16}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("item_code", validateItemCode)
}

func validateItemCode(fl validator.FieldLevel) bool {
	return itemCodePattern.MatchString(fl.Field().String())
}

// ValidateStruct returns one detail per failed field, or nil when s is valid.
func ValidateStruct(s any) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []httpx.ErrorDetail{{Field: "", Message: err.Error()}}
	}

	var details []httpx.ErrorDetail
	for _, fe := range validationErrors {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must contain at least %s entries", field, param)
		case "max":
			message = fmt.Sprintf("%s must contain at most %s entries", field, param)
		case "item_code":
			message = fmt.Sprintf("%s must be an alphanumeric item code", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
