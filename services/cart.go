package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/digistore-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore persists each owner's product -> quantity mapping. Every query is
// scoped by the owner's email.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// List returns the owner's cart joined with its products. Items whose product
// has been deleted are left out.
func (s *CartStore) List(ctx context.Context, owner Identity) ([]models.CartItem, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		InnerJoins("Product").
		Where("cart_items.user_email = ?", owner.Email).
		Order("cart_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return items, nil
}

// Add increments the quantity of an existing row or inserts a new one in a
// single upsert.
func (s *CartStore) Add(ctx context.Context, owner Identity, productID uint, quantity int) (*models.CartItem, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	if quantity == 0 {
		quantity = 1
	}
	if productID == 0 || quantity < 1 {
		return nil, fmt.Errorf("%w: product id and a positive quantity are required", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	var product models.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}

	item := models.CartItem{UserEmail: owner.Email, ProductID: productID, Quantity: quantity}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_email"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("add product %d to cart: %w", productID, err)
	}

	var saved models.CartItem
	if err := db.Where("user_email = ? AND product_id = ?", owner.Email, productID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("reload cart item: %w", err)
	}
	return &saved, nil
}

// UpdateQuantity sets an item's quantity. A quantity below 1 removes the item
// and returns a nil item.
func (s *CartStore) UpdateQuantity(ctx context.Context, owner Identity, itemID uint, quantity int) (*models.CartItem, error) {
	if !owner.Valid() {
		return nil, ErrUnauthorized
	}
	if quantity < 1 {
		return nil, s.Remove(ctx, owner, itemID)
	}

	db := s.db.WithContext(ctx)
	var item models.CartItem
	if err := db.Where("id = ? AND user_email = ?", itemID, owner.Email).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("load cart item %d: %w", itemID, err)
	}

	item.Quantity = quantity
	if err := db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	return &item, nil
}

func (s *CartStore) Remove(ctx context.Context, owner Identity, itemID uint) error {
	if !owner.Valid() {
		return ErrUnauthorized
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_email = ?", itemID, owner.Email).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("remove cart item %d: %w", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return nil
}

// Clear deletes every item of the owner and reports how many were removed.
func (s *CartStore) Clear(ctx context.Context, owner Identity) (int64, error) {
	if !owner.Valid() {
		return 0, ErrUnauthorized
	}
	result := s.db.WithContext(ctx).Where("user_email = ?", owner.Email).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Snapshot captures the live cart with prices normalized to what the
// processor charges.
func (s *CartStore) Snapshot(ctx context.Context, owner Identity) (*CartSnapshot, error) {
	items, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	snap := &CartSnapshot{OwnerEmail: owner.Email, Items: make([]SnapshotItem, 0, len(items))}
	for _, item := range items {
		price, err := ParsePrice(item.Product.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, err)
		}
		snap.Items = append(snap.Items, SnapshotItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     FormatAmount(NormalizePrice(price)),
		})
	}
	return snap, nil
}
