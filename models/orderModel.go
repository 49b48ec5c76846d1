package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrderStatusCompleted  = "completed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order has no soft delete: the unique session id must always resolve to a visible row.
type Order struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserEmail       string         `json:"userEmail" gorm:"size:255;not null;index"`
	StripeSessionID string         `json:"stripeSessionId" gorm:"size:255;not null;uniqueIndex"`
	TotalAmount     string         `json:"totalAmount" gorm:"size:32;not null"`
	Status          string         `json:"status" gorm:"size:32;not null;default:completed"`
	Source          string         `json:"source" gorm:"size:16"`
	Snapshot        datatypes.JSON `json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	OrderItems      []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	OrderID   uint     `json:"orderId" gorm:"not null;index"`
	ProductID uint     `json:"productId" gorm:"not null;index"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Price     string   `json:"price" gorm:"size:32;not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusCompleted, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
