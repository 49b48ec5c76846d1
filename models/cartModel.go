package models

import "time"

// CartItem is a staging row: one per (owner, product). Rows are hard-deleted.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"userEmail" gorm:"size:255;not null;uniqueIndex:idx_cart_owner_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_cart_owner_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
