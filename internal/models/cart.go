package models

import "time"

// CartItem is one product row in a cart. A product appears at most once per cart.
type CartItem struct {
	ID        uint     `json:"_id" gorm:"primaryKey"`
	CartID    string   `json:"-" gorm:"uniqueIndex:idx_cart_product;type:varchar(36);not null"`
	ProductID string   `json:"productId" gorm:"uniqueIndex:idx_cart_product;type:varchar(36);not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity" gorm:"not null"`
}

// Cart holds a user's pending selections. There is at most one cart per user.
type Cart struct {
	ID        string     `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FindItem returns the row for productID, or nil.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
