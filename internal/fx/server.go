package fx

import (
	"context"

	"Hishab/config"
	"Hishab/internal/domain/session"
	"Hishab/internal/logger"
	"Hishab/internal/middleware"
	"Hishab/internal/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// ServerModule provides the HTTP server configuration.
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		setupRoutes,
	),
)

func newRouter() *gin.Engine {
	return gin.Default()
}

func setupRoutes(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	sessionSvc *session.Service,
	authRateLimiter *middleware.RateLimiter,
) {
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", handler.Health)

	public := router.Group("/api")
	public.Use(middleware.RateLimit(authRateLimiter))
	{
		public.POST("/auth/register", handler.Register)
		public.POST("/auth/login", handler.Login)
	}

	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(sessionSvc, cfg))
	private.Use(middleware.RateLimitByUser(cfg.RateLimit.PrivatePerMinute))
	{
		private.POST("/auth/logout", handler.Logout)

		users := private.Group("/users")
		{
			users.GET("/me", handler.GetMe)
			users.PATCH("/me", handler.UpdateProfile)
		}

		sessions := private.Group("/sessions")
		{
			sessions.GET("", handler.ListSessions)
			sessions.DELETE("/:id", handler.RevokeSession)
		}

		partners := private.Group("/partners")
		{
			partners.POST("", handler.CreatePartner)
			partners.GET("", handler.ListPartners)
			partners.GET("/leaderboard", handler.GetLeaderboard)
			partners.GET("/:id", handler.GetPartner)
			partners.PATCH("/:id", handler.UpdatePartner)
		}

		transactions := private.Group("/transactions")
		{
			transactions.POST("", handler.CreateContribution)
			transactions.GET("", handler.ListTransactions)
			transactions.GET("/:id", handler.GetTransaction)
			transactions.PATCH("/:id", handler.AmendTransaction)
			transactions.POST("/:id/undo", handler.UndoTransaction)
		}

		private.POST("/sync/queue", handler.SyncQueue)

		costEntries := private.Group("/cost-entries")
		{
			costEntries.POST("", handler.CreateCostEntry)
			costEntries.GET("", handler.ListCostEntries)
			costEntries.GET("/:id", handler.GetCostEntry)
			costEntries.PATCH("/:id", handler.UpdateCostEntry)
			costEntries.POST("/:id/cancel", handler.CancelCostEntry)
		}

		sales := private.Group("/sales")
		{
			sales.POST("", handler.CreateSale)
			sales.GET("", handler.ListSales)
			sales.GET("/:id", handler.GetSale)
			sales.POST("/:id/refund", handler.RefundSale)
			sales.GET("/:id/allocations", handler.ListAllocationsBySale)
		}

		allocations := private.Group("/allocations")
		{
			allocations.POST("", handler.CreateAllocation)
			allocations.GET("", handler.ListAllocations)
		}

		exports := private.Group("/exports")
		{
			exports.GET("/transactions.csv", handler.ExportTransactionsCSV)
			exports.GET("/transactions.xlsx", handler.ExportTransactionsXLSX)
		}

		uploads := private.Group("/uploads")
		{
			uploads.POST("/receipts", handler.UploadReceipt)
			uploads.GET("/receipts/:id", handler.GetReceipt)
		}

		reports := private.Group("/reports")
		{
			reports.GET("/sales-summary", handler.GetSalesSummary)
			reports.GET("/contribution-summary", handler.GetContributionSummary)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	logger.Info().
		Str("address", serverAddr).
		Str("environment", cfg.App.Environment).
		Msg("Server starting")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(serverAddr); err != nil {
					logger.Fatal().Err(err).Msg("Server failed to start")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Server stopping")
			return nil
		},
	})
}
