package model

import "time"

// AuthResponse is returned by every flow that mints a token pair.
type AuthResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	Account      AccountSummary `json:"account"`
}

// MessageResponse is the error body shape clients rely on.
type MessageResponse struct {
	Message string `json:"message"`
}
