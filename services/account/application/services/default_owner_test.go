package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ghuser/itemtracker/pkg/auth"
	accountdomain "github.com/ghuser/itemtracker/services/account/domain"
	"github.com/ghuser/itemtracker/services/account/domain/models"
)

func newTestResolver(repo *memUserRepo) *DefaultOwnerResolver {
	return NewDefaultOwnerResolver(repo, auth.NewBcryptHasher(bcrypt.MinCost), nil)
}

func TestResolveDefaultOwner_ReturnsFirstUser(t *testing.T) {
	repo := &memUserRepo{}
	svc := NewAccountService(repo, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	ctx := context.Background()

	firstID, err := svc.Register(ctx, "first", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "second", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := newTestResolver(repo).ResolveDefaultOwner(ctx)
	if err != nil {
		t.Fatalf("ResolveDefaultOwner: %v", err)
	}
	if got != firstID {
		t.Fatalf("expected first user %d, got %d", firstID, got)
	}
	if repo.createCalls != 2 {
		t.Fatalf("resolver must not create a user when one exists, create calls = %d", repo.createCalls)
	}
}

func TestResolveDefaultOwner_CreatesDefaultUserOnEmptyStore(t *testing.T) {
	repo := &memUserRepo{}
	resolver := newTestResolver(repo)
	ctx := context.Background()

	id, err := resolver.ResolveDefaultOwner(ctx)
	if err != nil {
		t.Fatalf("ResolveDefaultOwner: %v", err)
	}
	if len(repo.users) != 1 || repo.users[0].Username != DefaultOwnerUsername {
		t.Fatalf("expected a single %q user, got %+v", DefaultOwnerUsername, repo.users)
	}
	if id != repo.users[0].ID {
		t.Fatalf("expected id %d, got %d", repo.users[0].ID, id)
	}

	// The synthesized account can log in with the fixed password.
	svc := NewAccountService(repo, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	if err := svc.Verify(ctx, DefaultOwnerUsername, DefaultOwnerPassword); err != nil {
		t.Fatalf("Verify default user: %v", err)
	}

	// A second call reuses it.
	again, err := resolver.ResolveDefaultOwner(ctx)
	if err != nil {
		t.Fatalf("ResolveDefaultOwner: %v", err)
	}
	if again != id || len(repo.users) != 1 {
		t.Fatalf("expected reuse of %d, got %d with %d users", id, again, len(repo.users))
	}
}

// racingRepo reports an empty store on the first First call, then behaves
// as if a concurrent request created the default user.
type racingRepo struct {
	memUserRepo
	calls int
}

func (r *racingRepo) First(ctx context.Context) (*models.User, error) {
	r.calls++
	if r.calls == 1 {
		return nil, accountdomain.ErrUserNotFound
	}
	return r.memUserRepo.First(ctx)
}

func TestResolveDefaultOwner_ConcurrentCreateRereadsFirst(t *testing.T) {
	repo := &racingRepo{}
	repo.users = []*models.User{{ID: 7, Username: DefaultOwnerUsername, PasswordHash: "x"}}
	repo.nextID = 7

	resolver := NewDefaultOwnerResolver(repo, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	id, err := resolver.ResolveDefaultOwner(context.Background())
	if err != nil {
		t.Fatalf("ResolveDefaultOwner: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected winner id 7, got %d", id)
	}
}

func TestResolveDefaultOwner_StoreError(t *testing.T) {
	repo := &memUserRepo{failFirst: errors.New("db down")}
	if _, err := newTestResolver(repo).ResolveDefaultOwner(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if repo.createCalls != 0 {
		t.Fatalf("must not create on store error, create calls = %d", repo.createCalls)
	}
}
