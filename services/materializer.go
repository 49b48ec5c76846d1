package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/digistore-api/models"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TriggerSource string

const (
	SourceWebhook  TriggerSource = "webhook"
	SourceRedirect TriggerSource = "redirect"
)

type MaterializeRequest struct {
	SessionID string
	// TotalOverride replaces the computed sum, e.g. with the processor's amount_total.
	TotalOverride *decimal.Decimal
	// Snapshot is used as-is when set; otherwise the owner's live cart is read.
	Snapshot *CartSnapshot
	Source   TriggerSource
}

type MaterializeResult struct {
	Order   *models.Order
	Created bool
}

// Materializer turns a paid checkout session into exactly one order. The
// unique index on orders.stripe_session_id is the only synchronization.
type Materializer struct {
	db     *gorm.DB
	carts  *CartStore
	logger *zap.Logger
}

func NewMaterializer(db *gorm.DB, carts *CartStore, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{db: db, carts: carts, logger: logger}
}

func (m *Materializer) Materialize(ctx context.Context, owner Identity, req MaterializeRequest) (*MaterializeResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	log := m.logger.With(zap.String("session_id", req.SessionID), zap.String("source", string(req.Source)))

	existing, err := m.findBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Debug("order already materialized", zap.Uint("order_id", existing.ID))
		return &MaterializeResult{Order: existing}, nil
	}

	snap := req.Snapshot
	if snap == nil {
		if snap, err = m.carts.Snapshot(ctx, owner); err != nil {
			return nil, err
		}
	}
	items, err := m.resolveItems(ctx, snap)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// The other trigger may have committed and cleared the cart since
		// the first lookup.
		existing, err = m.findBySession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info("cart already consumed by existing order", zap.Uint("order_id", existing.ID))
			return &MaterializeResult{Order: existing}, nil
		}
		return nil, ErrEmptyCart
	}

	order, err := m.create(ctx, owner, req, snap, items)
	if errors.Is(err, errDuplicateOrder) {
		// Lost the race to the other trigger; its row is the order.
		existing, err = m.findBySession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("order for session %s vanished after duplicate insert", req.SessionID)
		}
		log.Info("concurrent materialization resolved to existing order", zap.Uint("order_id", existing.ID))
		return &MaterializeResult{Order: existing}, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("order materialized",
		zap.Uint("order_id", order.ID),
		zap.String("total", order.TotalAmount),
		zap.Int("items", len(order.OrderItems)))

	if _, err := m.carts.Clear(ctx, owner); err != nil {
		log.Warn("order created but cart not cleared", zap.Uint("order_id", order.ID), zap.Error(err))
	}
	return &MaterializeResult{Order: order, Created: true}, nil
}

func (m *Materializer) findBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := m.db.WithContext(ctx).
		Preload("OrderItems").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up order for session %s: %w", sessionID, err)
	}
	return &order, nil
}

// resolveItems fills in missing snapshot prices from the product table with a
// single IN query. Deleted products still price historical snapshots.
func (m *Materializer) resolveItems(ctx context.Context, snap *CartSnapshot) ([]models.OrderItem, error) {
	var missing []uint
	for _, it := range snap.Items {
		if it.Price == "" {
			missing = append(missing, it.ProductID)
		}
	}

	prices := make(map[uint]string, len(missing))
	if len(missing) > 0 {
		var products []models.Product
		err := m.db.WithContext(ctx).Unscoped().
			Select("id", "price").
			Where("id IN ?", missing).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("price snapshot items: %w", err)
		}
		for _, p := range products {
			prices[p.ID] = p.Price
		}
	}

	items := make([]models.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		raw := it.Price
		if raw == "" {
			var ok bool
			if raw, ok = prices[it.ProductID]; !ok {
				return nil, fmt.Errorf("%w: unknown product %d", ErrInvalidSnapshot, it.ProductID)
			}
		}
		price, err := ParsePrice(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %v", ErrInvalidSnapshot, it.ProductID, err)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d quantity %d", ErrInvalidSnapshot, it.ProductID, it.Quantity)
		}
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     FormatAmount(NormalizePrice(price)),
		})
	}
	return items, nil
}

func (m *Materializer) create(ctx context.Context, owner Identity, req MaterializeRequest, snap *CartSnapshot, items []models.OrderItem) (*models.Order, error) {
	total := OrderTotal(items)
	if req.TotalOverride != nil {
		total = *req.TotalOverride
	}
	raw, err := json.Marshal(snap.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order snapshot: %w", err)
	}

	order := &models.Order{
		UserEmail:       owner.Email,
		StripeSessionID: req.SessionID,
		TotalAmount:     FormatAmount(total),
		Status:          models.OrderStatusCompleted,
		Source:          string(req.Source),
		Snapshot:        datatypes.JSON(raw),
	}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("OrderItems").Create(order).Error; err != nil {
			if isDuplicateKey(err) {
				return errDuplicateOrder
			}
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.OrderItems = items
	return order, nil
}

// OrderTotal is sum(quantity x price) over the items.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
