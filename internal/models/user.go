package models

import "time"

// Role identifies what a caller is allowed to do.
type Role string

const (
	RoleBuyer      Role = "buyer"
	RoleSeller     Role = "seller"
	RoleSuperadmin Role = "superadmin"
)

// User represents a buyer or an artisan (seller) of the marketplace.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Slug      *string   `json:"slug,omitempty" gorm:"uniqueIndex;type:varchar(120)"` // public profile handle
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns a copy safe to hand out, with the password hash cleared.
func (u User) Public() User {
	u.Password = ""
	return u
}
