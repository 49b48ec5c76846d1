package initializers

import (
	"github.com/Kariqs/digistore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Category{},
		&models.SiteSetting{},
		&models.Ticket{},
		&models.TicketMessage{},
	)
}

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		Logger.Fatal("Database sync failed", zap.Error(err))
	}
	Logger.Info("Database synced successfully.")
}
