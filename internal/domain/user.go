package domain

import "time"

// User is the domain entity for a registered account.
// Confirmed stays false until the email confirmation token is consumed.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}
