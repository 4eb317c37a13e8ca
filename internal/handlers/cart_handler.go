package handlers

import (
	"artisanconnect/internal/middleware"
	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes; all of them require a buyer or seller.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth, middleware.RequireRole(models.RoleBuyer, models.RoleSeller))
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Put("/update/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/remove/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/clear", h.HandleClearCart)
}

// AddToCartRequest represents the request body for adding a product.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateCartRequest represents the request body for setting a quantity.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the caller's cart, or an empty one.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(middleware.Identity(c).UserID)
	if err != nil {
		return respondError(c, err, "Failed to fetch cart")
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product, defaulting the quantity to one.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(middleware.Identity(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err, "Failed to add to cart")
	}
	return c.JSON(fiber.Map{"message": "Item added to cart", "cart": cart})
}

// HandleUpdateItem sets the quantity of a product in the cart.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be at least 1",
		})
	}

	cart, err := h.service.UpdateItem(middleware.Identity(c).UserID, c.Params("productId"), req.Quantity)
	if err != nil {
		return respondError(c, err, "Failed to update cart")
	}
	return c.JSON(fiber.Map{"message": "Cart updated", "cart": cart})
}

// HandleRemoveItem drops a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(middleware.Identity(c).UserID, c.Params("productId"))
	if err != nil {
		return respondError(c, err, "Failed to remove from cart")
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart", "cart": cart})
}

// HandleClearCart deletes the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.Identity(c).UserID); err != nil {
		return respondError(c, err, "Failed to clear cart")
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
