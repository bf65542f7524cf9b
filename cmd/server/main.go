package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"units-exchange.backend/internal/config"
	"units-exchange.backend/internal/infrastructure/jobs"
	"units-exchange.backend/internal/infrastructure/notifications"
	"units-exchange.backend/internal/infrastructure/repositories"
	"units-exchange.backend/internal/interfaces/http/handlers"
	"units-exchange.backend/internal/interfaces/http/middleware"
	"units-exchange.backend/internal/usecases"
	"units-exchange.backend/pkg/jwt"
	"units-exchange.backend/pkg/logger"
	"units-exchange.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	trustRatingRepo := repositories.NewTrustRatingRepository(db)
	giftCardRepo := repositories.NewGiftCardRepository(db)
	promoTokenRepo := repositories.NewPromoTokenRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, walletRepo, uow, jwtService,
		cfg.Ledger.DefaultCreditLimit, cfg.Ledger.TrustNeutralScore)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, txRepo, outboxRepo, uow,
		cfg.Ledger.TransferMaxRetries)
	trustUsecase := usecases.NewTrustUsecase(trustRatingRepo, userRepo, walletRepo, txRepo,
		usecases.TrustConfig{
			NeutralScore:  cfg.Ledger.TrustNeutralScore,
			PriorWeight:   cfg.Ledger.TrustPriorWeight,
			MinSampleSize: cfg.Ledger.TrustMinSampleSize,
		})
	giftCardUsecase := usecases.NewGiftCardUsecase(giftCardRepo, promoTokenRepo, walletRepo,
		userRepo, txRepo, outboxRepo, uow,
		usecases.GiftCardConfig{
			CardExpiry:         cfg.Ledger.GiftCardExpiry,
			PromoTokenExpiry:   cfg.Ledger.PromoTokenExpiry,
			DefaultCreditLimit: cfg.Ledger.DefaultCreditLimit,
			NeutralTrustScore:  cfg.Ledger.TrustNeutralScore,
		})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	giftCardHandler := handlers.NewGiftCardHandler(giftCardUsecase)
	trustHandler := handlers.NewTrustHandler(trustUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewGiftCardExpiryJob(giftCardUsecase,
		cfg.Jobs.GiftCardExpiryInterval, cfg.Jobs.OutboxBatchSize)
	go expiryJob.Start(ctx)

	publisher := notifications.NewRedisPublisher(cfg.Redis.NotificationChannel)
	dispatcher := jobs.NewOutboxDispatcher(outboxRepo, publisher,
		cfg.Jobs.OutboxInterval, cfg.Jobs.OutboxBatchSize)
	go dispatcher.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     authHandler,
		walletHandler:   walletHandler,
		giftCardHandler: giftCardHandler,
		trustHandler:    trustHandler,
		authMiddleware:  middleware.AuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		expiryJob.Stop()
		dispatcher.Stop()
		cancel()
	}()

	// Start server
	logger.Info(context.Background(), "Units exchange backend starting",
		zap.String("port", cfg.Server.Port))

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
