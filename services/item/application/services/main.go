package services

import (
	"github.com/ghuser/itemtracker/pkg/app"
	domainsvcs "github.com/ghuser/itemtracker/services/item/domain/services"
	"github.com/ghuser/itemtracker/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the
// Application container. owners supplies the default owner for ownerless items.
func New(a *app.Application, owners domainsvcs.OwnerResolver) *Services {
	repo := postgres.NewItemRepository(a.Db, a.EventBus)
	return &Services{
		Item: NewItemService(repo, owners, a.ItemCache, a.Logger),
	}
}
