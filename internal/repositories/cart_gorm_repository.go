package repositories

import (
	"errors"
	"fmt"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves the user's cart with products and their artisans populated.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product.Artisan").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Save creates the cart or rewrites its rows in one transaction.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		cart.UpdatedAt = now
		if cart.ID == "" {
			cart.ID = uuid.New().String()
			cart.CreatedAt = now
			if err := tx.Omit("Items").Create(cart).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		} else if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("updated_at", now).Error; err != nil {
			return fmt.Errorf("failed to touch cart %s: %w", cart.ID, err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to reset cart items: %w", err)
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Omit("Product").Create(&cart.Items).Error; err != nil {
				return fmt.Errorf("failed to save cart items: %w", err)
			}
		}
		return nil
	})
}

// DeleteByUserID removes the user's cart and its rows. A missing cart is not an error.
func (r *GORMCartRepository) DeleteByUserID(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.First(&cart, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up cart for user %s: %w", userID, err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Delete(&models.Cart{}, "id = ?", cart.ID).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	})
}
