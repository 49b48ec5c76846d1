package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/digistore-api/models"
	"github.com/Kariqs/digistore-api/payments"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	db           *gorm.DB
	gateway      payments.Gateway
	materializer *Materializer
	// verifyPayment re-reads the session from the processor before trusting a redirect.
	verifyPayment bool
	logger        *zap.Logger
}

func NewOrderService(db *gorm.DB, gateway payments.Gateway, materializer *Materializer, verifyPayment bool, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		db:            db,
		gateway:       gateway,
		materializer:  materializer,
		verifyPayment: verifyPayment,
		logger:        logger,
	}
}

// CreateFromRedirect materializes the order when the buyer's browser returns
// from checkout. It races the webhook safely.
func (s *OrderService) CreateFromRedirect(ctx context.Context, owner Identity, sessionID string, totalOverride *decimal.Decimal) (*MaterializeResult, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if totalOverride != nil && totalOverride.IsNegative() {
		return nil, fmt.Errorf("%w: negative total", ErrInvalidInput)
	}

	// A verified session's charged amount takes precedence over a client total.
	if s.verifyPayment {
		session, err := s.verifySession(ctx, owner, sessionID)
		if err != nil {
			return nil, err
		}
		charged := FromMinorUnits(session.AmountTotal)
		totalOverride = &charged
	}

	res, err := s.materializer.Materialize(ctx, owner, MaterializeRequest{
		SessionID:     sessionID,
		TotalOverride: totalOverride,
		Source:        SourceRedirect,
	})
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(res.Order.UserEmail, owner.Email) {
		return nil, fmt.Errorf("%w: order for session %s", ErrNotFound, sessionID)
	}
	return res, nil
}

func (s *OrderService) verifySession(ctx context.Context, owner Identity, sessionID string) (*payments.Session, error) {
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if errors.Is(err, payments.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	if !strings.EqualFold(session.CustomerEmail, owner.Email) &&
		!strings.EqualFold(session.Metadata[MetadataOwnerKey], owner.Email) {
		s.logger.Warn("redirect for a session owned by someone else",
			zap.String("session_id", sessionID), zap.String("user_email", owner.Email))
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if session.PaymentStatus != payments.PaymentStatusPaid && session.PaymentStatus != payments.PaymentStatusNoPaymentRequired {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotCompleted, session.PaymentStatus)
	}
	return session, nil
}

// ListForOwner returns the buyer's purchases, newest first. Deleted products
// are still loaded so downloads keep working.
func (s *OrderService) ListForOwner(ctx context.Context, owner Identity) ([]models.Order, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_email = ?", owner.Email).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListAll is the admin view of every order.
func (s *OrderService) ListAll(ctx context.Context, page Page) ([]models.Order, int64, error) {
	page = page.normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var orders []models.Order
	err := db.
		Preload("OrderItems").
		Preload("OrderItems.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: order status %q", ErrInvalidInput, status)
	}
	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if err := db.Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update order %d: %w", orderID, err)
	}
	order.Status = status
	s.logger.Info("order status updated", zap.Uint("order_id", orderID), zap.String("status", status))
	return &order, nil
}

type PaymentStats struct {
	TotalRevenue   string `json:"totalRevenue"`
	TotalOrders    int64  `json:"totalOrders"`
	AverageOrder   string `json:"averageOrder"`
	TodayRevenue   string `json:"todayRevenue"`
	TodayOrders    int64  `json:"todayOrders"`
	CancelledCount int64  `json:"cancelledOrders"`
}

// PaymentStats sums order totals in Go; amounts are stored as decimal strings.
func (s *OrderService) PaymentStats(ctx context.Context, now time.Time) (*PaymentStats, error) {
	var rows []models.Order
	err := s.db.WithContext(ctx).
		Select("id", "total_amount", "status", "created_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load order totals: %w", err)
	}

	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	stats := &PaymentStats{}
	revenue, today := decimal.Zero, decimal.Zero
	var counted int64
	for _, o := range rows {
		if o.Status == models.OrderStatusCancelled {
			stats.CancelledCount++
			continue
		}
		amount, err := decimal.NewFromString(o.TotalAmount)
		if err != nil {
			s.logger.Warn("order with unparseable total", zap.Uint("order_id", o.ID), zap.String("total", o.TotalAmount))
			continue
		}
		counted++
		revenue = revenue.Add(amount)
		if !o.CreatedAt.Before(startOfDay) {
			stats.TodayOrders++
			today = today.Add(amount)
		}
	}
	stats.TotalOrders = counted
	stats.TotalRevenue = FormatAmount(revenue)
	stats.TodayRevenue = FormatAmount(today)
	stats.AverageOrder = FormatAmount(decimal.Zero)
	if counted > 0 {
		stats.AverageOrder = FormatAmount(revenue.DivRound(decimal.NewFromInt(counted), 2))
	}
	return stats, nil
}
