// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// IssueKeyRequest contains the parameters for issuing an API key.
type IssueKeyRequest struct {
	APIID string `json:"api_id"`
}

// Validate checks if the issue key request is valid.
func (r *IssueKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.APIID, validation.Required, is.UUID),
	)
}
