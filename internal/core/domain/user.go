package domain

import "time"

// TokenTTL is the lifetime of a bearer token from issuance.
const TokenTTL = 24 * time.Hour

// User is a registered account. Users are never deleted.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	PasswordSalt string    `json:"passwordSalt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
