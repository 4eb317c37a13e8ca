package models

import "time"

// Product represents an item listed by an artisan.
type Product struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"not null"`
	MadeBy    string    `json:"madeBy" gorm:"not null"`
	ImageURL  string    `json:"imageUrl" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	ArtisanID string    `json:"artisanId" gorm:"index;type:varchar(36);not null"`
	Artisan   *User     `json:"artisan,omitempty" gorm:"foreignKey:ArtisanID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
