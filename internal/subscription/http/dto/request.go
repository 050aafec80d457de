// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// SubscribeRequest contains the parameters for opening a subscription.
type SubscribeRequest struct {
	PackageID string `json:"package_id"`
}

// Validate checks if the subscribe request is valid.
func (r *SubscribeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PackageID, validation.Required, is.UUID),
	)
}

// ChangePackageRequest contains the parameters for moving a subscription to
// a different package.
type ChangePackageRequest struct {
	PackageID string `json:"package_id"`
}

// Validate checks if the change package request is valid.
func (r *ChangePackageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PackageID, validation.Required, is.UUID),
	)
}
