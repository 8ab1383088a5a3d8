package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemtracker/pkg/database"
	"github.com/ghuser/itemtracker/pkg/events"
	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
	domainevents "github.com/ghuser/itemtracker/services/item/domain/events"
	"github.com/ghuser/itemtracker/services/item/domain/models"
	"github.com/ghuser/itemtracker/services/item/infrastructure/persistence/postgres/db"
)

const pgForeignKeyViolation = "23503"

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. Every write publishes its event in the write's transaction;
// a nil bus disables publishing.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Save persists a new Item, sets its ID and publishes an ItemCreatedEvent
// within the same transaction. Returns ErrOwnerNotFound on a foreign key violation.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		id, err := db.New(tx).InsertItem(ctx, db.InsertItemParams{
			Name:        item.Name.String(),
			Description: toNullString(item.Description),
			UserID:      item.OwnerID,
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return fmt.Errorf("%w: user %d", itemdomain.ErrOwnerNotFound, item.OwnerID)
			}
			return fmt.Errorf("insert item: %w", err)
		}
		item.ID = id

		return r.publish(ctx, tx, domainevents.TopicItemCreated, func(eventID uuid.UUID, now time.Time) any {
			return domainevents.ItemCreatedEvent{
				EventID:     eventID,
				Version:     1,
				ItemID:      item.ID,
				OwnerID:     item.OwnerID,
				Name:        item.Name.String(),
				Description: item.Description,
				OccurredAt:  now,
			}
		})
	})
}

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// List retrieves every item ordered by id.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

// Update reads the row with FOR UPDATE, applies fn and writes name and
// description back, publishing an ItemUpdatedEvent in the same transaction.
// Concurrent partial updates of one item are serialized by the row lock.
func (r *ItemRepository) Update(ctx context.Context, id int64, fn func(item *models.Item) error) (*models.Item, error) {
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		row, err := q.GetItemByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.ErrItemNotFound
			}
			return fmt.Errorf("lock item: %w", err)
		}

		item = rowToItem(row)
		if err := fn(item); err != nil {
			return err
		}

		n, err := q.UpdateItem(ctx, db.UpdateItemParams{
			ID:          id,
			Name:        item.Name.String(),
			Description: toNullString(item.Description),
		})
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		return r.publish(ctx, tx, domainevents.TopicItemUpdated, func(eventID uuid.UUID, now time.Time) any {
			return domainevents.ItemUpdatedEvent{
				EventID:     eventID,
				Version:     1,
				ItemID:      item.ID,
				OwnerID:     item.OwnerID,
				Name:        item.Name.String(),
				Description: item.Description,
				OccurredAt:  now,
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID in a single statement and publishes an
// ItemDeletedEvent in the same transaction.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).DeleteItem(ctx, id)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		return r.publish(ctx, tx, domainevents.TopicItemDeleted, func(eventID uuid.UUID, now time.Time) any {
			return domainevents.ItemDeletedEvent{
				EventID:    eventID,
				Version:    1,
				ItemID:     id,
				OccurredAt: now,
			}
		})
	})
}

// publish builds the event with a fresh id and publishes it inside tx.
// No-op when the repository has no bus.
func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, topic string, build func(uuid.UUID, time.Time) any) error {
	if r.bus == nil {
		return nil
	}
	eventID := uuid.New()
	msg, err := events.NewEventMessage(eventID, 1, build(eventID, time.Now().UTC()))
	if err != nil {
		return err
	}
	if err := r.bus.PublishTx(ctx, tx, topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// rowToItem maps a db.Item to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	item := &models.Item{
		ID:      row.ID,
		Name:    models.ItemName(row.Name),
		OwnerID: row.UserID,
	}
	if row.Description.Valid {
		d := row.Description.String
		item.Description = &d
	}
	return item
}
