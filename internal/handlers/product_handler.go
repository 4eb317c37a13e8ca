package handlers

import (
	"artisanconnect/internal/middleware"
	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes need auth.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/artisan/:artisanId", h.HandleGetArtisanProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, middleware.RequireRole(models.RoleSeller), h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// CreateProductRequest represents the request body for listing a product.
type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	MadeBy   string  `json:"madeBy" validate:"required,max=200"`
	ImageURL string  `json:"imageUrl" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// UpdateProductRequest represents a partial product update.
type UpdateProductRequest struct {
	Name     string  `json:"name" validate:"omitempty,max=200"`
	MadeBy   string  `json:"madeBy" validate:"omitempty,max=200"`
	ImageURL string  `json:"imageUrl"`
	Price    float64 `json:"price" validate:"omitempty,gt=0"`
}

// HandleGetProducts lists every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetArtisanProducts lists one artisan's products.
func (h *ProductHandler) HandleGetArtisanProducts(c *fiber.Ctx) error {
	products, err := h.service.GetArtisanProducts(c.Params("artisanId"))
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Product not found")
	}
	return c.JSON(product)
}

// HandleCreateProduct lists a product for the calling seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	product, err := h.service.CreateProduct(middleware.Identity(c), services.ProductInput{
		Name:     req.Name,
		MadeBy:   req.MadeBy,
		ImageURL: req.ImageURL,
		Price:    req.Price,
	})
	if err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits a product owned by the caller.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	product, err := h.service.UpdateProduct(middleware.Identity(c), c.Params("id"), services.ProductInput{
		Name:     req.Name,
		MadeBy:   req.MadeBy,
		ImageURL: req.ImageURL,
		Price:    req.Price,
	})
	if err != nil {
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product owned by the caller.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(middleware.Identity(c), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
