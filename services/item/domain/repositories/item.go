package repositories

import (
	"context"

	"github.com/ghuser/itemtracker/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// Save inserts item and sets item.ID. Returns ErrOwnerNotFound when
	// item.OwnerID references no user.
	Save(ctx context.Context, item *models.Item) error

	// GetByID returns ErrItemNotFound when no item has the given id.
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// List returns every item ordered by id ascending. The slice is empty,
	// not nil, when there are no items.
	List(ctx context.Context) ([]*models.Item, error)

	// Update locks the item with the given id, lets fn change it and
	// persists name and description, all in one transaction. The owner
	// column is never written. Returns ErrItemNotFound if no row matches;
	// an error from fn aborts the update.
	Update(ctx context.Context, id int64, fn func(item *models.Item) error) (*models.Item, error)

	// Delete removes an item by ID. Returns ErrItemNotFound if nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
