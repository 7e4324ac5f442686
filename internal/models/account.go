// Package models contains the domain structures of the registration portal:
// the login account, the conference application and the types exchanged
// between services and the storage layer.
package models

import "time"

// Account represents a login identity of a registrant. It is paired 1:1
// with an Application by email; the pairing is by email equality, not by
// a foreign key.
type Account struct {
	UID          string    // Unique identifier, assigned by the store
	Username     string    // Generated username, not guaranteed unique
	Email        string    // Lower-cased, trimmed, unique
	PasswordHash string    // bcrypt hash, the plaintext is never stored
	Role         string    // "user" or "admin"
	CreatedAt    time.Time
}

// AccountSummary is the admin listing projection of an account.
type AccountSummary struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Roles an account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
