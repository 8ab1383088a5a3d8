package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/itemtracker/pkg/auth"
	"github.com/ghuser/itemtracker/pkg/logger"
	accountdomain "github.com/ghuser/itemtracker/services/account/domain"
	"github.com/ghuser/itemtracker/services/account/domain/models"
	"github.com/ghuser/itemtracker/services/account/domain/repositories"
)

// Credentials of the user synthesized when an item is created with no owner
// and the store has no users yet.
const (
	DefaultOwnerUsername = "default_user"
	DefaultOwnerPassword = "password"
)

// DefaultOwnerResolver picks the owner for items created without one.
// It satisfies the item context's OwnerResolver interface.
type DefaultOwnerResolver struct {
	repo   repositories.UserRepository
	hasher auth.PasswordHasher
	log    logger.Logger
}

// NewDefaultOwnerResolver returns a resolver backed by repo.
func NewDefaultOwnerResolver(repo repositories.UserRepository, hasher auth.PasswordHasher, log logger.Logger) *DefaultOwnerResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &DefaultOwnerResolver{repo: repo, hasher: hasher, log: log}
}

// ResolveDefaultOwner returns the id of the earliest created user. On an
// empty store it creates DefaultOwnerUsername and returns the new id.
func (r *DefaultOwnerResolver) ResolveDefaultOwner(ctx context.Context) (int64, error) {
	first, err := r.repo.First(ctx)
	if err == nil {
		return first.ID, nil
	}
	if !errors.Is(err, accountdomain.ErrUserNotFound) {
		return 0, fmt.Errorf("first user: %w", err)
	}

	hash, err := r.hasher.Hash(DefaultOwnerPassword)
	if err != nil {
		return 0, fmt.Errorf("hash default password: %w", err)
	}
	user, err := models.NewUser(DefaultOwnerUsername, hash)
	if err != nil {
		return 0, fmt.Errorf("new default user: %w", err)
	}

	if err := r.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, accountdomain.ErrUserAlreadyExists) {
			return 0, fmt.Errorf("create default user: %w", err)
		}
		// Lost the race to a concurrent request; whoever won is first now.
		first, err := r.repo.First(ctx)
		if err != nil {
			return 0, fmt.Errorf("first user after conflict: %w", err)
		}
		return first.ID, nil
	}

	r.log.WarnContext(ctx, "created default owner for ownerless item",
		"user_id", user.ID, "username", DefaultOwnerUsername)
	return user.ID, nil
}
