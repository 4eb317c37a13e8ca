package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

func cloneOrder(o models.Order) *models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o
}

// Create adds a new order. Receipt and gateway ids must be unique.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.OrderID == order.OrderID || o.GatewayOrderID == order.GatewayOrderID {
			return fmt.Errorf("order %s already exists", order.OrderID)
		}
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].ID = uint(i + 1)
		order.Items[i].OrderID = order.ID
	}
	stored := cloneOrder(*order)
	stored.Customer = nil
	r.orders[order.ID] = *stored
	return nil
}

// GetAll returns every order, newest first.
func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }), nil
}

// GetByCustomer returns the orders placed by one customer, newest first.
func (r *MemoryOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

// GetByArtisan returns the orders that contain at least one line from artisanID.
func (r *MemoryOrderRepository) GetByArtisan(artisanID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.HasArtisan(artisanID) }), nil
}

func (r *MemoryOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			orderList = append(orderList, *cloneOrder(o))
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return cloneOrder(order), nil
}

// GetByGatewayOrderID returns the order opened under a payment gateway order id.
func (r *MemoryOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.GatewayOrderID == gatewayOrderID {
			return cloneOrder(o), nil
		}
	}
	return nil, fmt.Errorf("order with gateway ID %s: %w", gatewayOrderID, ErrNotFound)
}

// CompletePayment flips a pending order to completed under the write lock.
func (r *MemoryOrderRepository) CompletePayment(gatewayOrderID, paymentProofID, signature string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, o := range r.orders {
		if o.GatewayOrderID != gatewayOrderID {
			continue
		}
		if o.PaymentStatus != models.PaymentPending {
			return nil, fmt.Errorf("order %s is %s: %w", o.OrderID, o.PaymentStatus, ErrNotPending)
		}
		o.PaymentProofID = paymentProofID
		o.PaymentSignature = signature
		o.PaymentStatus = models.PaymentCompleted
		o.UpdatedAt = time.Now()
		r.orders[id] = o
		return cloneOrder(o), nil
	}
	return nil, fmt.Errorf("order with gateway ID %s: %w", gatewayOrderID, ErrNotFound)
}

// UpdateStatus sets the fulfilment status of an order.
func (r *MemoryOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	order.OrderStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return cloneOrder(order), nil
}
