package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products, newest first.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// GetByArtisan returns the products listed by one artisan, newest first.
func (r *MemoryProductRepository) GetByArtisan(artisanID string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.ArtisanID == artisanID }), nil
}

func (r *MemoryProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].CreatedAt.After(productList[j].CreatedAt)
	})
	return productList
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
