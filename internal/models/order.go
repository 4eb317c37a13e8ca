package models

import "time"

// PaymentStatus tracks the two-phase payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed" // reserved for out-of-band failure handling
)

// OrderStatus is the fulfilment state set by artisans or the superadmin.
type OrderStatus string

const (
	OrderPlaced     OrderStatus = "placed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known fulfilment states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product line taken when the order was created.
// Name and Price are copied, so later product edits never change history.
type OrderItem struct {
	ID        uint    `json:"_id" gorm:"primaryKey"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36);not null"`
	ProductID string  `json:"productId" gorm:"type:varchar(36);not null"`
	Name      string  `json:"name" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"` // unit price at the time of order
	Quantity  int     `json:"quantity" gorm:"not null"`
	ArtisanID string  `json:"artisanId" gorm:"index;type:varchar(36);not null"`
	Artisan   *User   `json:"artisan,omitempty" gorm:"foreignKey:ArtisanID"`
}

// Subtotal is Price * Quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order represents one checkout transaction.
type Order struct {
	ID               string        `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OrderID          string        `json:"orderId" gorm:"uniqueIndex;type:varchar(64);not null"` // receipt
	CustomerID       string        `json:"customerId" gorm:"index;type:varchar(36);not null"`
	Customer         *User         `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items            []OrderItem   `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount      float64       `json:"totalAmount" gorm:"not null"`
	GatewayOrderID   string        `json:"razorpayOrderId" gorm:"uniqueIndex;type:varchar(64);not null"`
	PaymentProofID   string        `json:"razorpayPaymentId,omitempty" gorm:"type:varchar(64)"`
	PaymentSignature string        `json:"razorpaySignature,omitempty" gorm:"type:varchar(128)"`
	PaymentStatus    PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:'pending';not null"`
	OrderStatus      OrderStatus   `json:"orderStatus" gorm:"type:varchar(20);default:'placed';not null"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// HasArtisan reports whether artisanID supplied at least one line of the order.
func (o *Order) HasArtisan(artisanID string) bool {
	for _, item := range o.Items {
		if item.ArtisanID == artisanID {
			return true
		}
	}
	return false
}
