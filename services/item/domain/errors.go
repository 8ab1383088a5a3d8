package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNameRequired indicates a create or update supplied an empty name.
	ErrItemNameRequired = errors.New("item name is required")

	// ErrOwnerNotFound indicates the owner id does not reference a user.
	ErrOwnerNotFound = errors.New("owner does not exist")
)
