package services

import (
	"fmt"
	"testing"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	buyer    = Identity{Subject: "user_buyer", Email: "buyer@example.com", Name: "Buyer"}
	stranger = Identity{Subject: "user_other", Email: "other@example.com", Name: "Other"}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := initializers.OpenDatabase("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, initializers.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string) models.Product {
	t.Helper()
	p := models.Product{
		Title:       title,
		Price:       price,
		Description: title + " description",
		Category:    "templates",
		CreatedBy:   "seller@example.com",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func countOrders(t *testing.T, db *gorm.DB, sessionID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Where("stripe_session_id = ?", sessionID).Count(&n).Error)
	return n
}

func countCartItems(t *testing.T, db *gorm.DB, owner string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_email = ?", owner).Count(&n).Error)
	return n
}
