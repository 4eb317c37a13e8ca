package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"artisanconnect/internal/metrics"
	"artisanconnect/internal/models"
	"artisanconnect/internal/payment"
	"artisanconnect/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Placeholders stored when a mock-mode verification omits the proof fields.
const (
	mockPaymentID = "mock_payment_id"
	mockSignature = "mock_signature"
)

// CartLine is one requested (product, quantity) pair at checkout.
type CartLine struct {
	ProductID string
	Quantity  int
}

// CheckoutResult is what the client needs to open the gateway checkout.
type CheckoutResult struct {
	GatewayOrderID string
	Amount         int64 // minor units
	Currency       string
	Order          *models.Order
}

// OrderService drives the order lifecycle: pricing and opening a payment,
// verifying it, then clearing the cart and handing off notifications.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	gateway     payment.Gateway
	dispatcher  NotificationDispatcher
	currency    string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	gateway payment.Gateway,
	dispatcher NotificationDispatcher,
	currency string,
	logger *zap.Logger,
) *OrderService {
	if currency == "" {
		currency = "INR"
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		currency:    currency,
		logger:      logger,
	}
}

func (s *OrderService) mode() string {
	if s.gateway.Mock() {
		return "mock"
	}
	return "live"
}

// CreateOrder prices the requested lines at current product prices, opens a
// gateway intent for the total and records a pending order. Nothing is
// persisted unless every product resolves and the gateway accepts the intent.
func (s *OrderService) CreateOrder(caller Identity, lines []CartLine) (*CheckoutResult, error) {
	if caller.UserID == "" {
		return nil, fmt.Errorf("%w: only registered users can place orders", ErrForbidden)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product %s must be at least 1", ErrValidation, line.ProductID)
		}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, err
		}

		item := models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			ArtisanID: product.ArtisanID,
		}
		items = append(items, item)
		totalAmount += item.Subtotal()
	}

	receipt := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent, err := s.gateway.CreateOrder(toMinorUnits(totalAmount), s.currency, receipt)
	if err != nil {
		s.logger.Error("payment intent creation failed", zap.String("receipt", receipt), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to create payment order: %v", ErrUpstream, err)
	}
	if intent.Receipt != "" {
		receipt = intent.Receipt
	}

	order := &models.Order{
		OrderID:        receipt,
		CustomerID:     caller.UserID,
		Items:          items,
		TotalAmount:    totalAmount,
		GatewayOrderID: intent.ID,
		PaymentStatus:  models.PaymentPending,
		OrderStatus:    models.OrderPlaced,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(s.mode()).Inc()
	s.logger.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("gateway_order_id", intent.ID),
		zap.Float64("total", totalAmount),
		zap.String("mode", s.mode()),
	)

	return &CheckoutResult{
		GatewayOrderID: intent.ID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
		Order:          order,
	}, nil
}

// VerifyPayment checks the gateway's proof for a pending order and completes it.
// After the commit it deletes the caller's cart and hands the order to the
// notification dispatcher; neither step can fail the verification.
//
// An order that is already completed is returned with ErrAlreadyVerified and
// no side effects are repeated.
func (s *OrderService) VerifyPayment(caller Identity, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, fmt.Errorf("%w: razorpay_order_id is required", ErrValidation)
	}

	order, err := s.orderRepo.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentCompleted {
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		return order, ErrAlreadyVerified
	}

	if s.gateway.Mock() {
		s.logger.Debug("mock mode: skipping signature verification", zap.String("gateway_order_id", gatewayOrderID))
		if paymentID == "" {
			paymentID = mockPaymentID
		}
		if signature == "" {
			signature = mockSignature
		}
	} else if payment.IsMockOrderID(gatewayOrderID) {
		metrics.PaymentVerifications.WithLabelValues("invalid_signature").Inc()
		s.logger.Warn("mock order presented to live gateway", zap.String("gateway_order_id", gatewayOrderID))
		return nil, fmt.Errorf("%w: %s was not issued by the gateway", ErrInvalidSignature, gatewayOrderID)
	} else if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		metrics.PaymentVerifications.WithLabelValues("invalid_signature").Inc()
		s.logger.Warn("invalid payment signature",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.String("payment_id", paymentID),
		)
		return nil, ErrInvalidSignature
	}

	completed, err := s.orderRepo.CompletePayment(gatewayOrderID, paymentID, signature)
	if errors.Is(err, repositories.ErrNotPending) {
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		current, getErr := s.orderRepo.GetByGatewayOrderID(gatewayOrderID)
		if getErr != nil {
			return nil, getErr
		}
		return current, ErrAlreadyVerified
	}
	if err != nil {
		return nil, err
	}
	metrics.PaymentVerifications.WithLabelValues("completed").Inc()
	s.logger.Info("payment verified", zap.String("order_id", completed.OrderID), zap.String("payment_id", paymentID))

	if caller.UserID != "" {
		if err := s.cartRepo.DeleteByUserID(caller.UserID); err != nil {
			s.logger.Error("failed to clear cart after payment", zap.String("user_id", caller.UserID), zap.Error(err))
		}
	}

	s.dispatcher.Dispatch(completed)
	return completed, nil
}

// GetMyOrders returns the caller's own orders, newest first.
func (s *OrderService) GetMyOrders(caller Identity) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(caller.UserID)
}

// GetAllOrders returns every order to the superadmin and, to a seller, the
// orders that contain at least one of their products.
func (s *OrderService) GetAllOrders(caller Identity) ([]models.Order, error) {
	switch caller.Role {
	case models.RoleSuperadmin:
		return s.orderRepo.GetAll()
	case models.RoleSeller:
		return s.orderRepo.GetByArtisan(caller.UserID)
	default:
		return nil, ErrForbidden
	}
}

// UpdateOrderStatus sets the fulfilment status. The superadmin may update any
// order; a seller only orders containing one of their lines. Any of the five
// statuses may follow any other.
func (s *OrderService) UpdateOrderStatus(caller Identity, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", ErrValidation, status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleSuperadmin:
	case models.RoleSeller:
		if !order.HasArtisan(caller.UserID) {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	updated, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status updated",
		zap.String("order_id", updated.OrderID),
		zap.String("status", string(status)),
		zap.String("by", caller.Username),
	)
	return updated, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
