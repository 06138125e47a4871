package infrastructure

import (
	"Hishab/config"
	"Hishab/internal/domain/allocation"
	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/ledger"
	"Hishab/internal/domain/partner"
	"Hishab/internal/domain/receipt"
	"Hishab/internal/domain/sale"
	"Hishab/internal/domain/session"
	"Hishab/internal/domain/user"
	"Hishab/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDb(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Error().
			Err(err).
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.DBName).
			Msg("Failed to connect to the database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to obtain database handle")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.DBName).
		Msg("Database connection established")

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	logger.Info().Msg("Running migrations...")

	entities := []interface{}{
		&user.User{},
		&session.Session{},
		&partner.Partner{},
		&ledger.Transaction{},
		&costentry.CostEntry{},
		&sale.Sale{},
		&allocation.Allocation{},
		&receipt.Receipt{},
	}

	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			logger.Error().
				Err(err).
				Str("entity", getEntityName(entity)).
				Msg("Failed to migrate entity")
			return err
		}
	}

	// AutoMigrate cannot express a partial unique index. Undo rows need one:
	// at most a single undo may ever reference a given transaction, and the
	// index is what decides concurrent undo races.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_undo_target
		ON transactions (related_to)
		WHERE related_to IS NOT NULL AND type = 'undo'
	`).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create undo uniqueness index")
		return err
	}

	logger.Info().Msg("Migrations completed")
	return nil
}

func getEntityName(entity interface{}) string {
	switch entity.(type) {
	case *user.User:
		return "User"
	case *session.Session:
		return "Session"
	case *partner.Partner:
		return "Partner"
	case *ledger.Transaction:
		return "Transaction"
	case *costentry.CostEntry:
		return "CostEntry"
	case *sale.Sale:
		return "Sale"
	case *allocation.Allocation:
		return "Allocation"
	case *receipt.Receipt:
		return "Receipt"
	default:
		return "Unknown"
	}
}
