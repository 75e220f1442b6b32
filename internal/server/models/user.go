// Package models holds the records persisted by the repositories.
package models

import "time"

// User is a registered account. PasswordHash and Salt are the encoded
// PBKDF2 digest and salt; Iterations is the count they were derived with.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Salt         string
	Iterations   int
	CreatedAt    time.Time
}
