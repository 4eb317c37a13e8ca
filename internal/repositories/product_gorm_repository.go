package repositories

import (
	"errors"
	"fmt"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their artisan, newest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Artisan").Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByArtisan retrieves the products listed by one artisan.
func (r *GORMProductRepository) GetByArtisan(artisanID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Artisan").Where("artisan_id = ?", artisanID).Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products of artisan %s: %w", artisanID, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Artisan").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Omit("Artisan").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the editable fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	product.UpdatedAt = time.Now()
	res := r.db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":       product.Name,
		"made_by":    product.MadeBy,
		"image_url":  product.ImageURL,
		"price":      product.Price,
		"updated_at": product.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
