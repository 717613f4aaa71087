package validators

import "github.com/go-playground/validator/v10"

// CustomValidator adapts go-playground/validator to echo's Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request struct against its tags
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
