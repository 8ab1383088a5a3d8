package models

import "fmt"

// Username is a value object for a login name. The only rule is presence;
// uniqueness is enforced by the repository.
type Username string

// NewUsername returns a Username or an error when s is empty.
func NewUsername(s string) (Username, error) {
	if s == "" {
		return "", fmt.Errorf("username must not be empty")
	}
	return Username(s), nil
}

// String returns the underlying string value.
func (u Username) String() string {
	return string(u)
}
