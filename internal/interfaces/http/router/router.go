package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/infrastructure/auth"
	"github.com/pawnshop/backend/internal/interfaces/http/handler"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Customer   *handler.CustomerHandler
	Loan       *handler.LoanHandler
	Voucher    *handler.VoucherHandler
	Collection *handler.CollectionHandler
	Report     *handler.ReportHandler
	Trash      *handler.TrashHandler
}

// Config carries the router dependencies
type Config struct {
	Handlers   Handlers
	JWTService *auth.JWTService
	CORS       middleware.CORSConfig
	Logger     *zap.Logger
}

// Setup wires middleware and routes onto the engine. Everything under
// /api/v1 except login requires a valid token.
func Setup(engine *gin.Engine, cfg Config) {
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		middleware.Recovery(cfg.Logger),
		middleware.CORSWithConfig(cfg.CORS),
	)

	engine.GET("/health", cfg.Handlers.System.Health)
	engine.GET("/ready", cfg.Handlers.System.Ready)

	api := engine.Group("/api/v1")
	api.POST("/auth/login", cfg.Handlers.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWTService, cfg.Logger))

	customers := protected.Group("/customers")
	{
		customers.POST("", cfg.Handlers.Customer.Create)
		customers.GET("", cfg.Handlers.Customer.List)
		customers.GET("/:id", cfg.Handlers.Customer.GetByID)
		customers.GET("/ref/:ref", cfg.Handlers.Customer.GetByRef)
		customers.PUT("/:id", cfg.Handlers.Customer.Update)
		customers.POST("/:id/activate", cfg.Handlers.Customer.Activate)
		customers.POST("/:id/deactivate", cfg.Handlers.Customer.Deactivate)
		customers.DELETE("/:id", cfg.Handlers.Customer.Delete)
	}

	loans := protected.Group("/loans")
	{
		loans.POST("", cfg.Handlers.Loan.Create)
		loans.GET("", cfg.Handlers.Loan.List)
		loans.GET("/stats", cfg.Handlers.Loan.Stats)
		loans.GET("/:id", cfg.Handlers.Loan.GetByID)
		loans.GET("/number/:number", cfg.Handlers.Loan.GetByNumber)
		loans.POST("/:id/payments", cfg.Handlers.Loan.ApplyPayment)
		loans.POST("/:id/payments/partial", cfg.Handlers.Loan.ApplyPartialPayment)
		loans.DELETE("/:id/payments/:number", cfg.Handlers.Loan.UndoPayment)
		loans.PUT("/:id/status", cfg.Handlers.Loan.UpdateStatus)
		loans.DELETE("/:id", cfg.Handlers.Loan.Delete)
	}

	vouchers := protected.Group("/vouchers")
	{
		vouchers.POST("", cfg.Handlers.Voucher.Create)
		vouchers.GET("", cfg.Handlers.Voucher.List)
		vouchers.GET("/:id", cfg.Handlers.Voucher.GetByID)
		vouchers.GET("/bill/:billNo", cfg.Handlers.Voucher.GetByBillNo)
		vouchers.GET("/:id/settlement", cfg.Handlers.Voucher.PreviewSettlement)
		vouchers.POST("/:id/close", cfg.Handlers.Voucher.Close)
		vouchers.POST("/:id/revert-closure", cfg.Handlers.Voucher.RevertClosure)
		vouchers.POST("/:id/auction", cfg.Handlers.Voucher.TransferToAuction)
		vouchers.POST("/:id/revert-auction", cfg.Handlers.Voucher.RevertAuction)
		vouchers.POST("/:id/interest-payments", cfg.Handlers.Voucher.RecordInterestPayment)
		vouchers.DELETE("/:id", cfg.Handlers.Voucher.Delete)
	}

	collections := protected.Group("/collections")
	{
		collections.GET("", cfg.Handlers.Collection.List)
		collections.GET("/dashboard", cfg.Handlers.Collection.Dashboard)
		collections.GET("/loan/:loanId", cfg.Handlers.Collection.GetByLoanID)
		collections.POST("/loan/:loanId/resync", cfg.Handlers.Collection.Resync)
		collections.POST("/sync-all", cfg.Handlers.Collection.SyncAll)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/ledger", cfg.Handlers.Report.GetLedger)
		reports.POST("/ledger/rebuild", cfg.Handlers.Report.RebuildLedger)
		reports.GET("/stock", cfg.Handlers.Report.GetStockSummary)
		reports.POST("/stock/rebuild", cfg.Handlers.Report.RebuildStockSummary)
	}

	trash := protected.Group("/trash")
	{
		trash.GET("", cfg.Handlers.Trash.List)
		trash.GET("/logs", cfg.Handlers.Trash.Logs)
		trash.POST("/:id/restore", cfg.Handlers.Trash.Restore)
		trash.DELETE("/:id", cfg.Handlers.Trash.Delete)
		trash.DELETE("", cfg.Handlers.Trash.Empty)
	}
}
