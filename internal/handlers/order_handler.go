package handlers

import (
	"errors"

	"artisanconnect/internal/middleware"
	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes; all of them require auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/create-order", h.HandleCreateOrder)
	orderRoutes.Post("/verify-payment", h.HandleVerifyPayment)
	orderRoutes.Get("/my-orders", h.HandleGetMyOrders)
	orderRoutes.Get("/all-orders", h.HandleGetAllOrders)
	orderRoutes.Put("/update-status/:orderId", h.HandleUpdateOrderStatus)
}

// CartItemRequest is one line of a checkout request.
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest represents the request body for checkout.
type CreateOrderRequest struct {
	CartItems []CartItemRequest `json:"cartItems" validate:"dive"`
}

// VerifyPaymentRequest uses the gateway's field names as sent by its checkout widget.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// UpdateStatusRequest represents the request body for a fulfilment update.
type UpdateStatusRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required"`
}

// HandleCreateOrder prices the cart and opens a payment with the gateway.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if len(req.CartItems) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart is empty",
		})
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	lines := make([]services.CartLine, len(req.CartItems))
	for i, item := range req.CartItems {
		lines[i] = services.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	result, err := h.service.CreateOrder(middleware.Identity(c), lines)
	if err != nil {
		h.logger.Error("error creating order", zap.Error(err))
		var missing *services.ProductNotFoundError
		switch {
		case errors.As(err, &missing):
			return respondError(c, err, missing.Error())
		case errors.Is(err, services.ErrNotFound):
			return respondError(c, err, "Product not found")
		case errors.Is(err, services.ErrUpstream):
			return respondError(c, err, "Failed to create payment order. Please check the payment gateway credentials.")
		}
		return respondError(c, err, "Failed to create order")
	}

	return c.JSON(fiber.Map{
		"orderId":  result.GatewayOrderID,
		"amount":   result.Amount,
		"currency": result.Currency,
		"order":    result.Order,
	})
}

// HandleVerifyPayment validates the gateway's payment proof and completes the order.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	order, err := h.service.VerifyPayment(middleware.Identity(c), req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyVerified):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Payment already verified",
				"order":   order,
			})
		case errors.Is(err, services.ErrInvalidSignature):
			return respondError(c, err, "Invalid payment signature")
		case errors.Is(err, services.ErrNotFound):
			return respondError(c, err, "Order not found")
		}
		h.logger.Error("error verifying payment", zap.String("gateway_order_id", req.RazorpayOrderID), zap.Error(err))
		return respondError(c, err, "Payment verification failed")
	}

	return c.JSON(fiber.Map{
		"message": "Payment verified successfully",
		"order":   order,
	})
}

// HandleGetMyOrders lists the caller's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(middleware.Identity(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch orders")
	}
	return c.JSON(orders)
}

// HandleGetAllOrders lists orders visible to a seller or the superadmin.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(middleware.Identity(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch orders")
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus sets an order's fulfilment status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	order, err := h.service.UpdateOrderStatus(middleware.Identity(c), c.Params("orderId"), models.OrderStatus(req.OrderStatus))
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return respondError(c, err, "Not authorized")
		}
		return respondError(c, err, "Failed to update order status")
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}
