// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"context"
	"fmt"

	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
	"github.com/ghuser/itemtracker/services/item/domain/models"
)

// OwnerResolver supplies the owner for an item created without one.
// The account context provides the implementation.
type OwnerResolver interface {
	ResolveDefaultOwner(ctx context.Context) (int64, error)
}

// ValidateItemForCreation performs cross-field validation on a fully-constructed
// Item aggregate before it is persisted. Whether the owner exists is left to
// the store.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if item.Name == "" {
		return itemdomain.ErrItemNameRequired
	}

	if item.OwnerID <= 0 {
		return fmt.Errorf("%w: owner id %d", itemdomain.ErrOwnerNotFound, item.OwnerID)
	}

	if item.ID != 0 {
		return fmt.Errorf("item already has id %d", item.ID)
	}

	return nil
}
