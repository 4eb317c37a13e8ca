package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user. Username, email and slug must be unique.
func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user %s already exists", user.Username)
		}
		if user.Slug != nil && u.Slug != nil && *u.Slug == *user.Slug {
			return fmt.Errorf("slug %s already taken", *user.Slug)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = *user
	return nil
}

// GetAll returns all users, newest first.
func (r *MemoryUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

// GetByUsername returns a user by username.
func (r *MemoryUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username "+username)
}

// GetByEmail returns a user by email.
func (r *MemoryUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email "+email)
}

// GetBySlug returns a seller by profile slug.
func (r *MemoryUserRepository) GetBySlug(slug string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Slug != nil && *u.Slug == slug }, "slug "+slug)
}

func (r *MemoryUserRepository) find(match func(models.User) bool, desc string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", desc, ErrNotFound)
}
