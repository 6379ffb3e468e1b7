package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// UserRepository is an in-memory domain.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository seeded with the given users
func NewUserRepository(users ...*domain.User) *UserRepository {
	repo := &UserRepository{users: make(map[string]*domain.User)}
	for _, user := range users {
		clone := *user
		repo.users[user.ID] = &clone
	}
	return repo
}

// Add registers a user
func (r *UserRepository) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	r.users[user.ID] = &clone
}

// FindByID returns the user or domain.ErrNotFound
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []*domain.User
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}
