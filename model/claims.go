package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims are carried by access tokens. The account id travels in the
// registered subject claim.
type AppClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
