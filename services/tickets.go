package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/digistore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TicketService manages support tickets. Callers pass isAdmin, resolved
// against the users table, alongside the identity.
type TicketService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTicketService(db *gorm.DB, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{db: db, logger: logger}
}

func validPriority(p string) bool {
	return p == "low" || p == "medium" || p == "high"
}

func senderName(identity Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	return "User"
}

// Create opens a ticket with its first message in one transaction.
func (s *TicketService) Create(ctx context.Context, owner Identity, subject, message, priority string) (*models.Ticket, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	subject, message = strings.TrimSpace(subject), strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, fmt.Errorf("%w: subject and message are required", ErrInvalidInput)
	}
	if priority == "" {
		priority = "medium"
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}

	ticket := &models.Ticket{
		UserEmail: owner.Email,
		UserName:  senderName(owner),
		Subject:   subject,
		Priority:  priority,
		Status:    models.TicketStatusOpen,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Messages").Create(ticket).Error; err != nil {
			return err
		}
		first := models.TicketMessage{
			TicketID:    ticket.ID,
			SenderEmail: owner.Email,
			SenderName:  ticket.UserName,
			Message:     message,
		}
		if err := tx.Create(&first).Error; err != nil {
			return err
		}
		ticket.Messages = []models.TicketMessage{first}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

func (s *TicketService) withMessages(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("ticket_messages.created_at ASC, ticket_messages.id ASC")
	})
}

// Get loads one ticket. Non-admins only see their own.
func (s *TicketService) Get(ctx context.Context, caller Identity, isAdmin bool, id uint) (*models.Ticket, error) {
	if !caller.Valid() {
		return nil, ErrUnauthorized
	}
	var ticket models.Ticket
	if err := s.withMessages(ctx).First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load ticket %d: %w", id, err)
	}
	if !isAdmin && ticket.UserEmail != caller.Email {
		return nil, fmt.Errorf("%w: ticket %d", ErrNotFound, id)
	}
	return &ticket, nil
}

func (s *TicketService) ListForOwner(ctx context.Context, owner Identity) ([]models.Ticket, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	var tickets []models.Ticket
	err := s.withMessages(ctx).
		Where("user_email = ?", owner.Email).
		Order("updated_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) ListAll(ctx context.Context, status string) ([]models.Ticket, error) {
	q := s.withMessages(ctx).Order("updated_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tickets []models.Ticket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) UpdateStatus(ctx context.Context, caller Identity, isAdmin bool, id uint, status string) (*models.Ticket, error) {
	if !models.IsValidTicketStatus(status) {
		return nil, fmt.Errorf("%w: ticket status %q", ErrInvalidInput, status)
	}
	ticket, err := s.Get(ctx, caller, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(ticket).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update ticket %d: %w", id, err)
	}
	ticket.Status = status
	return ticket, nil
}

// Reply appends a message. An admin reply moves the ticket to in_progress
// unless it is resolved; an owner reply re-opens a resolved ticket.
func (s *TicketService) Reply(ctx context.Context, caller Identity, isAdmin bool, ticketID uint, message string) (*models.TicketMessage, error) {
	message = strings.TrimSpace(message)
	if ticketID == 0 || message == "" {
		return nil, fmt.Errorf("%w: ticket id and message are required", ErrInvalidInput)
	}
	ticket, err := s.Get(ctx, caller, isAdmin, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, ErrTicketClosed
	}

	next := ticket.Status
	switch {
	case isAdmin && ticket.Status != models.TicketStatusResolved:
		next = models.TicketStatusInProgress
	case !isAdmin && ticket.Status == models.TicketStatusResolved:
		next = models.TicketStatusOpen
	}

	reply := &models.TicketMessage{
		TicketID:    ticket.ID,
		SenderEmail: caller.Email,
		SenderName:  senderName(caller),
		Message:     message,
		IsAdmin:     isAdmin,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		// Always touches updated_at so the ticket sorts to the top.
		return tx.Model(&models.Ticket{}).Where("id = ?", ticket.ID).Update("status", next).Error
	})
	if err != nil {
		return nil, fmt.Errorf("reply to ticket %d: %w", ticketID, err)
	}
	s.logger.Debug("ticket reply", zap.Uint("ticket_id", ticket.ID), zap.Bool("admin", isAdmin), zap.String("status", next))
	return reply, nil
}
