// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	customValidation "github.com/allisson/gateway/internal/validation"
)

// RegisterRequest contains the parameters for registering a new account.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks if the register request is valid.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, customValidation.Phone),
	)
}

// RequestCodeRequest contains the parameters for requesting a verification code.
type RequestCodeRequest struct {
	Phone string `json:"phone"`
}

// Validate checks if the request code request is valid.
func (r *RequestCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Phone, validation.Required, customValidation.Phone),
	)
}

// LoginRequest contains the parameters for redeeming a verification code.
type LoginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Phone, validation.Required, customValidation.Phone),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
