package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	collectionapp "github.com/pawnshop/backend/internal/application/collection"
	lendingapp "github.com/pawnshop/backend/internal/application/lending"
	partnerapp "github.com/pawnshop/backend/internal/application/partner"
	pawnapp "github.com/pawnshop/backend/internal/application/pawn"
	reportapp "github.com/pawnshop/backend/internal/application/report"
	trashapp "github.com/pawnshop/backend/internal/application/trash"
	"github.com/pawnshop/backend/internal/infrastructure/auth"
	"github.com/pawnshop/backend/internal/infrastructure/cache"
	"github.com/pawnshop/backend/internal/infrastructure/config"
	"github.com/pawnshop/backend/internal/infrastructure/logger"
	"github.com/pawnshop/backend/internal/infrastructure/persistence"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
	"github.com/pawnshop/backend/internal/interfaces/http/handler"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
	"github.com/pawnshop/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting pawnshop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; the reports fall back to the database when the
	// cache is disabled or unreachable.
	var reportCache *cache.ReportCache
	if cfg.Report.CacheEnabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, report caching disabled", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing redis client", zap.Error(err))
				}
			}()
			reportCache = cache.NewReportCache(redisClient, cfg.Report.CacheTTL)
			log.Info("Report cache enabled", zap.Duration("ttl", cfg.Report.CacheTTL))
		}
	}

	loanRepo := persistence.NewGormLoanRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	stockRepo := persistence.NewGormStockSummaryRepository(db.DB)
	trashRepo := persistence.NewGormTrashRepository(db.DB)

	collectionService := collectionapp.NewService(collectionRepo, loanRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo, trashRepo, log)
	loanService := lendingapp.NewLoanService(loanRepo, customerRepo, trashRepo, collectionService, log)
	voucherService := pawnapp.NewVoucherService(voucherRepo, customerRepo, trashRepo, log)
	reportService := reportapp.NewService(voucherRepo, ledgerRepo, stockRepo, reportCache, log)
	trashService := trashapp.NewService(trashRepo, loanRepo, voucherRepo, customerRepo, collectionRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	verifier := auth.NewCredentialVerifier(cfg.Auth)

	if err := dto.RegisterValidators(); err != nil {
		log.Fatal("Failed to register binding validators", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	router.Setup(engine, router.Config{
		Handlers: router.Handlers{
			System:     handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env),
			Auth:       handler.NewAuthHandler(verifier, jwtService, log),
			Customer:   handler.NewCustomerHandler(customerService),
			Loan:       handler.NewLoanHandler(loanService),
			Voucher:    handler.NewVoucherHandler(voucherService),
			Collection: handler.NewCollectionHandler(collectionService),
			Report:     handler.NewReportHandler(reportService),
			Trash:      handler.NewTrashHandler(trashService),
		},
		JWTService: jwtService,
		CORS:       corsConfig,
		Logger:     log,
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
