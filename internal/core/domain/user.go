package domain

import "time"

// Seeded role names. Roles must exist before they can be assigned to an
// identity; the Identity Store seeds these at startup.
const (
	RoleAdmin = "Admin"
	RoleHR    = "HR"
	RoleUser  = "User"
)

// User models an identity owned by the Identity Store. The password hash and
// security stamp never leave the persistence layer in API responses.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	SecurityStamp string    `json:"-"`
	Roles         []string  `json:"roles,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VerifiedIdentity is the outcome of a successful credential check: the
// subset of User attributes the token issuer embeds into claims.
type VerifiedIdentity struct {
	ID       string
	Username string
	Roles    []string
}

// AuthClaims are the identity claims recovered from a verified bearer token.
type AuthClaims struct {
	UserID   string
	Username string
	Roles    []string
	TokenID  string
}
