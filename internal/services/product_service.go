package services

import (
	"fmt"

	"artisanconnect/internal/models"
	"artisanconnect/internal/repositories"
)

// ProductInput carries the editable product fields. Zero values are left
// untouched on update.
type ProductInput struct {
	Name     string
	MadeBy   string
	ImageURL string
	Price    float64
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetArtisanProducts retrieves the products listed by one artisan.
func (s *ProductService) GetArtisanProducts(artisanID string) ([]models.Product, error) {
	return s.repo.GetByArtisan(artisanID)
}

// CreateProduct lists a new product owned by the calling seller.
func (s *ProductService) CreateProduct(caller Identity, in ProductInput) (*models.Product, error) {
	if caller.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers can list products", ErrForbidden)
	}
	if in.Name == "" || in.MadeBy == "" || in.ImageURL == "" || in.Price <= 0 {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}

	product := &models.Product{
		Name:      in.Name,
		MadeBy:    in.MadeBy,
		ImageURL:  in.ImageURL,
		Price:     in.Price,
		ArtisanID: caller.UserID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies the non-zero fields of in. Only the owning artisan
// or the superadmin may edit a product.
func (s *ProductService) UpdateProduct(caller Identity, id string, in ProductInput) (*models.Product, error) {
	product, err := s.authorizedProduct(caller, id)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.MadeBy != "" {
		product.MadeBy = in.MadeBy
	}
	if in.ImageURL != "" {
		product.ImageURL = in.ImageURL
	}
	if in.Price > 0 {
		product.Price = in.Price
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product owned by the caller (or any product for the superadmin).
func (s *ProductService) DeleteProduct(caller Identity, id string) error {
	if _, err := s.authorizedProduct(caller, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *ProductService) authorizedProduct(caller Identity, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleSuperadmin && product.ArtisanID != caller.UserID {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return product, nil
}
