package services

import (
	"errors"
	"fmt"

	"artisanconnect/internal/models"
	"artisanconnect/internal/repositories"
)

// CartService manages the single cart each user owns.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, or an empty cart when none exists yet.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	if err := requireCartOwner(userID); err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByUserID(userID)
	if errors.Is(err, ErrNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

// AddItem adds quantity of a product, creating the cart on first use.
// Adding a product already in the cart increments its quantity.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if err := requireCartOwner(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if errors.Is(err, ErrNotFound) {
		cart = &models.Cart{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if item := cart.FindItem(productID); item != nil {
		item.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	return s.save(cart)
}

// UpdateItem sets the quantity of a product already in the cart.
func (s *CartService) UpdateItem(userID, productID string, quantity int) (*models.Cart, error) {
	if err := requireCartOwner(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	item := cart.FindItem(productID)
	if item == nil {
		return nil, fmt.Errorf("product %s is not in the cart: %w", productID, ErrNotFound)
	}
	item.Quantity = quantity
	return s.save(cart)
}

// RemoveItem drops a product from the cart. Removing an absent product is a no-op.
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	if err := requireCartOwner(userID); err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return s.save(cart)
}

// ClearCart deletes the cart document. It is idempotent.
func (s *CartService) ClearCart(userID string) error {
	if err := requireCartOwner(userID); err != nil {
		return err
	}
	return s.cartRepo.DeleteByUserID(userID)
}

// save persists the cart and re-reads it so products come back populated.
func (s *CartService) save(cart *models.Cart) (*models.Cart, error) {
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(cart.UserID)
}

// requireCartOwner rejects callers without a user id, such as the superadmin.
func requireCartOwner(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: only registered users have a cart", ErrForbidden)
	}
	return nil
}
