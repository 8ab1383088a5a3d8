package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemtracker/pkg/auth"
	pkgcache "github.com/ghuser/itemtracker/pkg/cache"
	"github.com/ghuser/itemtracker/pkg/logger"
	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
	"github.com/ghuser/itemtracker/services/item/domain/models"
	"github.com/ghuser/itemtracker/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemtracker/services/item/domain/services"
)

// ItemService orchestrates the Item lifecycle.
// Event publishing is handled by the repository layer (outbox pattern).
// Reads by id are served from Redis cache when available.
//
// Every operation takes the acting user. It decides the owner of new items
// and is otherwise not consulted: any actor may touch any item.
type ItemService struct {
	repo   repositories.ItemRepository
	owners domainsvcs.OwnerResolver
	cache  *pkgcache.ItemCache
	log    logger.Logger
}

// NewItemService returns an ItemService wired with the given repository,
// default-owner resolver and cache. A nil cache disables caching.
func NewItemService(repo repositories.ItemRepository, owners domainsvcs.OwnerResolver, itemCache *pkgcache.ItemCache, log logger.Logger) *ItemService {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemService{repo: repo, owners: owners, cache: itemCache, log: log}
}

// Create validates and persists an Item. The owner is ownerID when non-zero,
// else the authenticated actor, else the default owner. The repository
// publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, actor auth.Actor, name string, description *string, ownerID int64) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrItemNameRequired, err)
	}

	owner, err := s.resolveOwner(ctx, actor, ownerID)
	if err != nil {
		return nil, err
	}

	item := models.NewItem(itemName, description, owner)
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

func (s *ItemService) resolveOwner(ctx context.Context, actor auth.Actor, ownerID int64) (int64, error) {
	switch {
	case ownerID != 0:
		return ownerID, nil
	case actor.Authenticated():
		return actor.UserID, nil
	default:
		id, err := s.owners.ResolveDefaultOwner(ctx)
		if err != nil {
			return 0, fmt.Errorf("resolve default owner: %w", err)
		}
		return id, nil
	}
}

// List returns every item ordered by id ascending.
func (s *ItemService) List(ctx context.Context, _ auth.Actor) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Warm the cache with the Postgres result, unless a write evicted the
//     id in the meantime.
func (s *ItemService) Get(ctx context.Context, _ auth.Actor, id int64) (*models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCached(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Warm(ctx, toCached(item)); err != nil {
			s.log.WarnContext(ctx, "item cache write failed", "item_id", id, "error", err)
		}
	}
	return item, nil
}

// Update applies a partial update: a nil name and an unset description keep
// their stored values, and the owner never changes. An explicitly empty name
// is rejected. The read and the write share one transaction.
func (s *ItemService) Update(ctx context.Context, _ auth.Actor, id int64, name *string, description models.DescriptionChange) (*models.Item, error) {
	var newName *models.ItemName
	if name != nil {
		n, err := models.NewItemName(*name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", itemdomain.ErrItemNameRequired, err)
		}
		newName = &n
	}

	item, err := s.repo.Update(ctx, id, func(item *models.Item) error {
		item.ApplyUpdate(newName, description)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.evict(ctx, id)
	return item, nil
}

// Delete removes an item by ID. Returns ErrItemNotFound if no matching item exists.
func (s *ItemService) Delete(ctx context.Context, _ auth.Actor, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.evict(ctx, id)
	return nil
}

func (s *ItemService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Evict(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache evict failed", "item_id", id, "error", err)
	}
}

func toCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		OwnerID:     item.OwnerID,
	}
}

func fromCached(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:          c.ID,
		Name:        models.ItemName(c.Name),
		Description: c.Description,
		OwnerID:     c.OwnerID,
	}
}
