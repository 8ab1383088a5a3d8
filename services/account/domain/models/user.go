package models

import (
	"fmt"
	"time"
)

// User is the aggregate owning credentials. ID is assigned by the store on
// insert; a zero ID means the user has not been persisted yet.
type User struct {
	ID           int64
	Username     Username
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser constructs an unsaved User from an already hashed password.
func NewUser(username Username, passwordHash string) (*User, error) {
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash must be set")
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
