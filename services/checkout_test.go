package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kariqs/digistore-api/payments/paymentstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckoutStartOpensSession(t *testing.T) {
	db := newTestDB(t)
	gw := paymentstest.NewGateway()
	carts := NewCartStore(db)
	svc := NewCheckoutService(carts, gw, CheckoutConfig{BaseURL: "https://shop.example.com/", Currency: "usd"}, zap.NewNop())
	ctx := context.Background()

	long := seedProduct(t, db, "Bundle", "19.995")
	require.NoError(t, db.Model(&long).Update("description", strings.Repeat("é", 150)).Error)
	_, err := carts.Add(ctx, buyer, long.ID, 2)
	require.NoError(t, err)

	res, err := svc.Start(ctx, buyer)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Contains(t, res.URL, res.SessionID)

	reqs := gw.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "https://shop.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cart", req.CancelURL)
	assert.Equal(t, buyer.Email, req.CustomerEmail)
	require.Len(t, req.LineItems, 1)
	assert.EqualValues(t, 2000, req.LineItems[0].UnitAmount)
	assert.EqualValues(t, 2, req.LineItems[0].Quantity)
	assert.Len(t, []rune(req.LineItems[0].Description), maxLineItemDescription)

	snap, err := DecodeSnapshotMetadata(req.Metadata)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "20.00", snap.Items[0].Price)

	// The cart is left alone until an order exists.
	assert.EqualValues(t, 1, countCartItems(t, db, buyer.Email))
}

func TestCheckoutStartEmptyCart(t *testing.T) {
	db := newTestDB(t)
	gw := paymentstest.NewGateway()
	svc := NewCheckoutService(NewCartStore(db), gw, CheckoutConfig{BaseURL: "http://localhost:3000"}, nil)

	_, err := svc.Start(context.Background(), buyer)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, gw.Requests())

	_, err = svc.Start(context.Background(), Identity{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckoutStartGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	gw := paymentstest.NewGateway()
	gw.CreateErr = errors.New("stripe unavailable")
	carts := NewCartStore(db)
	svc := NewCheckoutService(carts, gw, CheckoutConfig{BaseURL: "http://localhost:3000"}, nil)

	p := seedProduct(t, db, "Audio", "4.00")
	_, err := carts.Add(context.Background(), buyer, p.ID, 1)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), buyer)
	assert.ErrorContains(t, err, "stripe unavailable")
}
