package fx

import (
	"Hishab/config"
	"Hishab/internal/infrastructure"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newUserRepository,
		newSessionRepository,
		newPartnerRepository,
		newLedgerRepository,
		newCostEntryRepository,
		newSaleRepository,
		newAllocationRepository,
		newReceiptRepository,
		newReportRepository,
	),
)

func newDatabase(cfg *config.Config) (*gorm.DB, error) {
	return infrastructure.NewDb(cfg)
}

func newUserRepository(db *gorm.DB) *infrastructure.UserRepository {
	return &infrastructure.UserRepository{DB: db}
}

func newSessionRepository(db *gorm.DB) *infrastructure.SessionRepository {
	return &infrastructure.SessionRepository{DB: db}
}

func newPartnerRepository(db *gorm.DB) *infrastructure.PartnerRepository {
	return &infrastructure.PartnerRepository{DB: db}
}

func newLedgerRepository(db *gorm.DB) *infrastructure.LedgerRepository {
	return &infrastructure.LedgerRepository{DB: db}
}

func newCostEntryRepository(db *gorm.DB) *infrastructure.CostEntryRepository {
	return &infrastructure.CostEntryRepository{DB: db}
}

func newSaleRepository(db *gorm.DB) *infrastructure.SaleRepository {
	return &infrastructure.SaleRepository{DB: db}
}

func newAllocationRepository(db *gorm.DB) *infrastructure.AllocationRepository {
	return &infrastructure.AllocationRepository{DB: db}
}

func newReceiptRepository(db *gorm.DB) *infrastructure.ReceiptRepository {
	return &infrastructure.ReceiptRepository{DB: db}
}

func newReportRepository(db *gorm.DB) *infrastructure.ReportRepository {
	return &infrastructure.ReportRepository{DB: db}
}
