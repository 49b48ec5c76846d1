package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kariqs/digistore-api/payments"
	"go.uber.org/zap"
)

const maxLineItemDescription = 100

type CheckoutConfig struct {
	BaseURL  string
	Currency string
}

type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutService opens hosted checkout sessions. It reads the cart but never
// modifies it.
type CheckoutService struct {
	carts   *CartStore
	gateway payments.Gateway
	config  CheckoutConfig
	logger  *zap.Logger
}

func NewCheckoutService(carts *CartStore, gateway payments.Gateway, config CheckoutConfig, logger *zap.Logger) *CheckoutService {
	if config.Currency == "" {
		config.Currency = "usd"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{carts: carts, gateway: gateway, config: config, logger: logger}
}

func (s *CheckoutService) Start(ctx context.Context, owner Identity) (*CheckoutResult, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	cart, err := s.carts.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	snap := &CartSnapshot{OwnerEmail: owner.Email, Items: make([]SnapshotItem, 0, len(cart))}
	lineItems := make([]payments.LineItem, 0, len(cart))
	for _, item := range cart {
		price, err := ParsePrice(item.Product.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, err)
		}
		unit := ToMinorUnits(price)
		lineItems = append(lineItems, payments.LineItem{
			Name:        item.Product.Title,
			Description: truncateRunes(item.Product.Description, maxLineItemDescription),
			ImageURL:    item.Product.ImageUrl,
			UnitAmount:  unit,
			Quantity:    int64(item.Quantity),
		})
		snap.Items = append(snap.Items, SnapshotItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     FormatAmount(FromMinorUnits(unit)),
		})
	}

	metadata, err := EncodeSnapshotMetadata(snap)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, &payments.SessionRequest{
		Currency:      s.config.Currency,
		LineItems:     lineItems,
		SuccessURL:    s.config.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.config.BaseURL + "/cart",
		CustomerEmail: owner.Email,
		Metadata:      metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	s.logger.Info("checkout session opened",
		zap.String("session_id", session.ID),
		zap.String("user_email", owner.Email),
		zap.Int("items", len(lineItems)))
	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
