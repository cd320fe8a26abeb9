// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// Only the SHA-256 hash of the opaque value is persisted.
type RefreshToken struct {
	ID        int64      `json:"id"`
	AccountID int64      `json:"accountId"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	IPAddress *string    `json:"ipAddress,omitempty"`
	UserAgent *string    `json:"userAgent,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsUsable reports whether the token can still be redeemed at now.
func (t *RefreshToken) IsUsable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
