package model

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// FormatValidationError converts validator errors to ErrorDetail
func FormatValidationError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return &ErrorDetail{
			Code:    CodeBadRequest,
			Message: "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag",
		}
	}

	return &ErrorDetail{
		Code:    CodeBadRequest,
		Message: err.Error(),
	}
}

// normalizePage applies default and maximum page sizes.
func normalizePage(page, size *int) {
	if *page <= 0 {
		*page = DefaultPage
	}
	if *size <= 0 {
		*size = DefaultPageSize
	}
	if *size > MaxPageSize {
		*size = MaxPageSize
	}
}
