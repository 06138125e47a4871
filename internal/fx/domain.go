package fx

import (
	"Hishab/config"
	"Hishab/internal/domain/allocation"
	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/ledger"
	"Hishab/internal/domain/partner"
	"Hishab/internal/domain/receipt"
	"Hishab/internal/domain/report"
	"Hishab/internal/domain/sale"
	"Hishab/internal/domain/session"
	"Hishab/internal/domain/user"
	"Hishab/internal/infrastructure"
	"Hishab/internal/storage"

	"go.uber.org/fx"
)

// DomainModule provides every domain service.
var DomainModule = fx.Module("domain",
	fx.Provide(
		newUserService,
		newSessionService,
		newPartnerService,
		newLedgerService,
		newCostEntryService,
		newSaleService,
		newAllocationService,
		newReportService,
		newReceiptService,
	),
)

func newUserService(repo *infrastructure.UserRepository) *user.Service {
	return user.NewService(repo)
}

func newSessionService(repo *infrastructure.SessionRepository, cfg *config.Config) *session.Service {
	return session.NewService(repo, cfg.Session.TTL)
}

func newPartnerService(repo *infrastructure.PartnerRepository) *partner.Service {
	return partner.NewService(repo)
}

func newLedgerService(
	repo *infrastructure.LedgerRepository,
	partnerSvc *partner.Service,
) *ledger.Service {
	return ledger.NewService(repo, partnerSvc)
}

func newCostEntryService(repo *infrastructure.CostEntryRepository) *costentry.Service {
	return costentry.NewService(repo)
}

func newSaleService(repo *infrastructure.SaleRepository) *sale.Service {
	return sale.NewService(repo)
}

func newAllocationService(
	repo *infrastructure.AllocationRepository,
	saleSvc *sale.Service,
	costEntrySvc *costentry.Service,
) *allocation.Service {
	return allocation.NewService(repo, saleSvc, costEntrySvc)
}

func newReportService(repo *infrastructure.ReportRepository) *report.Service {
	return report.NewService(repo)
}

func newReceiptService(repo *infrastructure.ReceiptRepository, uploader storage.Uploader, ledgerSvc *ledger.Service) *receipt.Service {
	return receipt.NewService(repo, uploader, ledgerSvc)
}
