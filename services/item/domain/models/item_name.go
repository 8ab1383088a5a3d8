package models

import "fmt"

// ItemName is a value object for an item name. The only rule is presence.
type ItemName string

// NewItemName returns an ItemName or an error when s is empty.
func NewItemName(s string) (ItemName, error) {
	if s == "" {
		return "", fmt.Errorf("item name must not be empty")
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
