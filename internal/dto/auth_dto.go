package dto

import "github.com/cookiverse/cookiverse/internal/models"

// SignInRequest carries the identity token from the provider. Local mode
// ignores it.
type SignInRequest struct {
	IDToken string `json:"id_token"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// SignInErrorResponse is returned when the provider rejects a sign-in.
type SignInErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
