package repositories

import (
	"errors"

	"artisanconnect/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrNotPending is returned when a payment completion finds the order no longer pending.
	ErrNotPending = errors.New("order payment is not pending")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetBySlug(slug string) (*models.User, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByArtisan(artisanID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// CartRepository defines the interface for cart data access.
// A user owns at most one cart.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	// Save creates the cart or replaces its item rows.
	Save(cart *models.Cart) error
	// DeleteByUserID removes the user's cart. Deleting a missing cart is not an error.
	DeleteByUserID(userID string) error
}

// OrderRepository defines the interface for order data access. Orders are never deleted.
type OrderRepository interface {
	Create(order *models.Order) error
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	GetByArtisan(artisanID string) ([]models.Order, error)
	// CompletePayment moves a pending order to completed, recording the proof.
	// It returns ErrNotPending when the order was not pending at write time.
	CompletePayment(gatewayOrderID, paymentProofID, signature string) (*models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
}
