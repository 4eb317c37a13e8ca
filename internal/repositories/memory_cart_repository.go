package repositories

import (
	"fmt"
	"sync"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
)

// MemoryCartRepository is an in-memory implementation of CartRepository keyed by user.
type MemoryCartRepository struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByUserID returns the user's cart.
func (r *MemoryCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
	}
	cart.Items = append([]models.CartItem(nil), cart.Items...)
	return &cart, nil
}

// Save creates or replaces the user's cart.
func (r *MemoryCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if cart.ID == "" {
		cart.ID = uuid.New().String()
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	stored := *cart
	stored.Items = make([]models.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		item.CartID = cart.ID
		item.Product = nil
		stored.Items[i] = item
	}
	r.carts[cart.UserID] = stored
	return nil
}

// DeleteByUserID removes the user's cart if there is one.
func (r *MemoryCartRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
