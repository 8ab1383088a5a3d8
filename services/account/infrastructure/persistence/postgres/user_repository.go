package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemtracker/pkg/database"
	"github.com/ghuser/itemtracker/pkg/events"
	accountdomain "github.com/ghuser/itemtracker/services/account/domain"
	domainevents "github.com/ghuser/itemtracker/services/account/domain/events"
	"github.com/ghuser/itemtracker/services/account/domain/models"
	"github.com/ghuser/itemtracker/services/account/infrastructure/persistence/postgres/db"
)

const pgUniqueViolation = "23505"

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewUserRepository returns a UserRepository backed by the given connection pool
// and event bus. A nil bus disables event publishing.
func NewUserRepository(database *database.Database, bus *events.EventBus) *UserRepository {
	return &UserRepository{db: database, bus: bus}
}

// Create checks the username and inserts the user in one transaction, then
// publishes UserRegisteredEvent in that same transaction. The existence check
// keeps the common duplicate path free of failed inserts; the unique constraint
// on username catches the race between two concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)

		exists, err := q.UserExistsByUsername(ctx, user.Username.String())
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return accountdomain.ErrUserAlreadyExists
		}

		id, err := q.InsertUser(ctx, db.InsertUserParams{
			Username:     user.Username.String(),
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return accountdomain.ErrUserAlreadyExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		user.ID = id

		if r.bus != nil {
			if err := r.publishRegistered(ctx, tx, user); err != nil {
				return fmt.Errorf("publish user registered: %w", err)
			}
		}
		return nil
	})
}

// GetByUsername returns ErrUserNotFound if no user has the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username models.Username) (*models.User, error) {
	row, err := db.New(r.db.DB()).GetUserByUsername(ctx, username.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return rowToUser(row), nil
}

// First returns the user with the lowest id, or ErrUserNotFound on an empty table.
func (r *UserRepository) First(ctx context.Context) (*models.User, error) {
	row, err := db.New(r.db.DB()).GetFirstUser(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query first user: %w", err)
	}
	return rowToUser(row), nil
}

func (r *UserRepository) publishRegistered(ctx context.Context, tx *sql.Tx, user *models.User) error {
	event := domainevents.UserRegisteredEvent{
		EventID:    uuid.New(),
		Version:    1,
		UserID:     user.ID,
		Username:   user.Username.String(),
		OccurredAt: user.CreatedAt,
	}
	msg, err := events.NewEventMessage(event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	return r.bus.PublishTx(ctx, tx, domainevents.TopicUserRegistered, msg)
}

// rowToUser maps a db.User to a domain models.User.
func rowToUser(row db.User) *models.User {
	return &models.User{
		ID:           row.ID,
		Username:     models.Username(row.Username),
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}
