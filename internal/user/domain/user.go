package domain

import "time"

type ID string

// User is the identity record owned by the store. PasswordHash is opaque:
// produced by the hasher at registration, only ever compared, never decoded.
type User struct {
	ID           ID
	Username     string
	Email        string
	Birthday     *time.Time
	PasswordHash string
	Favorites    []string
	CreatedAt    time.Time
}
