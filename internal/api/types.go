// Package api defines the response bodies shared by every HTTP feature.
package api

// InternalErrorMessage is returned for any failure not mapped to a client error.
const InternalErrorMessage = "internal server error"

// TokenTypeBearer is the only token type issued by the API.
const TokenTypeBearer = "bearer"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain informational body.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StatusResponse is returned by health endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}
