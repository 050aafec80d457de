package dto

import (
	"time"

	userDomain "github.com/allisson/gateway/internal/user/domain"
)

// UserResponse represents an account in HTTP responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// MapUserToResponse converts a domain User to an HTTP response.
func MapUserToResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse is returned after successful code verification.
// The token is only returned once and must be stored by the caller.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MapLoginOutputToResponse converts a domain LoginOutput to an HTTP response.
func MapLoginOutputToResponse(output *userDomain.LoginOutput) LoginResponse {
	return LoginResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
		User:      MapUserToResponse(output.User),
	}
}
