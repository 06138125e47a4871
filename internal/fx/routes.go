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
	"Hishab/internal/routes"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
	),
)

func newHandler(
	cfg *config.Config,
	db *gorm.DB,
	userSvc *user.Service,
	sessionSvc *session.Service,
	partnerSvc *partner.Service,
	ledgerSvc *ledger.Service,
	costEntrySvc *costentry.Service,
	saleSvc *sale.Service,
	allocationSvc *allocation.Service,
	reportSvc *report.Service,
	receiptSvc *receipt.Service,
) *routes.Handler {
	return &routes.Handler{
		Config:            cfg,
		DB:                db,
		UserService:       userSvc,
		SessionService:    sessionSvc,
		PartnerService:    partnerSvc,
		LedgerService:     ledgerSvc,
		CostEntryService:  costEntrySvc,
		SaleService:       saleSvc,
		AllocationService: allocationSvc,
		ReportService:     reportSvc,
		ReceiptService:    receiptSvc,
	}
}
