package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// EchoValidator adapts validator/v10 to Echo's Validator interface
type EchoValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new EchoValidator
func NewValidator() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *EchoValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
