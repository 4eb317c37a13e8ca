package repositories

import (
	"errors"
	"fmt"
	"time"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// populated preloads the customer and each line's artisan.
func (r *GORMOrderRepository) populated() *gorm.DB {
	return r.db.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Artisan")
}

// Create inserts the order and its item snapshot in one statement batch.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Omit("Customer").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetAll retrieves every order, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.populated().Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByCustomer retrieves the orders placed by one customer, newest first.
func (r *GORMOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated().Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of customer %s: %w", customerID, err)
	}
	return orders, nil
}

// GetByArtisan retrieves the orders containing at least one line from artisanID.
func (r *GORMOrderRepository) GetByArtisan(artisanID string) ([]models.Order, error) {
	var orders []models.Order
	sub := r.db.Model(&models.OrderItem{}).Select("order_id").Where("artisan_id = ?", artisanID)
	err := r.populated().Where("id IN (?)", sub).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of artisan %s: %w", artisanID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.first("id", id)
}

// GetByGatewayOrderID retrieves the order opened under a payment gateway order id.
func (r *GORMOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	return r.first("gateway_order_id", gatewayOrderID)
}

func (r *GORMOrderRepository) first(column, value string) (*models.Order, error) {
	var order models.Order
	if err := r.populated().First(&order, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with %s %s: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by %s %s: %w", column, value, err)
	}
	return &order, nil
}

// CompletePayment is a conditional update: only a row still pending is touched,
// so two racing verifications cannot both complete the same order.
func (r *GORMOrderRepository) CompletePayment(gatewayOrderID, paymentProofID, signature string) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).
		Where("gateway_order_id = ? AND payment_status = ?", gatewayOrderID, string(models.PaymentPending)).
		Updates(map[string]interface{}{
			"payment_proof_id":  paymentProofID,
			"payment_signature": signature,
			"payment_status":    string(models.PaymentCompleted),
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to complete payment for %s: %w", gatewayOrderID, res.Error)
	}

	order, err := r.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %s is %s: %w", order.OrderID, order.PaymentStatus, ErrNotPending)
	}
	return order, nil
}

// UpdateStatus sets the fulfilment status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_status": string(status),
		"updated_at":   time.Now(),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}
