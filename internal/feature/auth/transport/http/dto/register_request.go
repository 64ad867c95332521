// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the JSON body of the /auth/register endpoint.
// Length rules are enforced by the usecase so they are counted in characters, not bytes.
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
