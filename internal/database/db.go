package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/config"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database, waiting for it to come up, and syncs the schema.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		})
		if err == nil {
			break
		}
		log.Warn("failed to connect to database, retrying",
			zap.Int("attempt", i+1), zap.Int("of", attempts), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Provider, attempts, err)
	}
	log.Info("connected to database", zap.String("provider", cfg.Provider))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database schema synced")
	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CashierInvoice{},
		&models.CashierInvoiceItem{},
		&models.Customer{},
		&models.CustomerInvoice{},
		&models.CustomerPayment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Provider {
	case config.ProviderPostgres:
		return postgres.Open(cfg.Connection), nil
	case config.ProviderMySQL:
		return mysql.Open(cfg.Connection), nil
	case config.ProviderSQLite:
		return sqlite.Open(SQLiteDSN(cfg.Connection)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_PROVIDER %q", cfg.Provider)
	}
}

// SQLiteDSN turns a plain file name into a DSN with foreign keys enforced,
// so cascade deletes behave the same as on postgres.
func SQLiteDSN(conn string) string {
	if strings.Contains(conn, "_foreign_keys") || strings.Contains(conn, "_fk=") {
		return conn
	}
	if !strings.HasPrefix(conn, "file:") {
		conn = "file:" + conn
	}
	sep := "?"
	if strings.Contains(conn, "?") {
		sep = "&"
	}
	return conn + sep + "_foreign_keys=on"
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
