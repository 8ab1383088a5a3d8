package repositories

import (
	"context"

	"github.com/ghuser/itemtracker/services/account/domain/models"
)

// UserRepository is the persistence interface for the User aggregate.
// The domain layer owns this interface; infrastructure implements it.
type UserRepository interface {
	// Create inserts user and sets user.ID. The username check and the insert
	// run as one unit; a taken username yields ErrUserAlreadyExists and no write.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername returns ErrUserNotFound when no user has that username.
	GetByUsername(ctx context.Context, username models.Username) (*models.User, error)

	// First returns the earliest created user, or ErrUserNotFound when the
	// store holds no users.
	First(ctx context.Context) (*models.User, error)
}
