package services

import (
	"github.com/ghuser/itemtracker/pkg/app"
	"github.com/ghuser/itemtracker/services/account/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Account      *AccountService
	DefaultOwner *DefaultOwnerResolver
}

// New wires all account application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewUserRepository(a.Db, a.EventBus)
	return &Services{
		Account:      NewAccountService(repo, a.Hasher, a.Logger),
		DefaultOwner: NewDefaultOwnerResolver(repo, a.Hasher, a.Logger),
	}
}
