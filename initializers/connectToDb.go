package initializers

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// OpenDatabase opens a gorm connection. Unique-constraint violations are
// translated to gorm.ErrDuplicatedKey, which order materialization relies on.
func OpenDatabase(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func ConnectToDB() {
	if Cfg.DBDSN == "" {
		Logger.Fatal("DB_DSN is not set")
	}
	db, err := OpenDatabase(Cfg.DBDriver, Cfg.DBDSN, Logger)
	if err != nil {
		Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	DB = db
	Logger.Info("Connected to database", zap.String("driver", Cfg.DBDriver))
}
