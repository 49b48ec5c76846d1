package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type Ticket struct {
	gorm.Model
	UserEmail string          `json:"userEmail" gorm:"size:255;index"`
	UserName  string          `json:"userName"`
	Subject   string          `json:"subject" gorm:"not null"`
	Priority  string          `json:"priority" gorm:"size:16;default:medium"`
	Status    string          `json:"status" gorm:"size:16;default:open"`
	Messages  []TicketMessage `json:"messages" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

type TicketMessage struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TicketID    uint      `json:"ticketId" gorm:"not null;index"`
	SenderEmail string    `json:"senderEmail"`
	SenderName  string    `json:"senderName"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
}

func IsValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}
