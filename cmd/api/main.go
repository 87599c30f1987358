package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"gamecodeshop/internal/adapter/api"
	"gamecodeshop/internal/adapter/api/handler"
	apimiddleware "gamecodeshop/internal/adapter/api/middleware"
	"gamecodeshop/internal/adapter/api/router"
	"gamecodeshop/internal/adapter/repository"
	"gamecodeshop/internal/domain/service"
	"gamecodeshop/internal/infrastructure/firebase"
	"gamecodeshop/internal/infrastructure/lock"
	"gamecodeshop/internal/infrastructure/mail"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/internal/infrastructure/ratelimit"
	"gamecodeshop/internal/infrastructure/storage"
	"gamecodeshop/internal/infrastructure/websocket"
	"gamecodeshop/internal/usecase"
	"gamecodeshop/pkg/config"
	"gamecodeshop/pkg/logger"
)

const autoConfirmLockKey = "gamecodeshop:auto-confirm"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := firebase.CredentialsOption(cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
	if err != nil {
		logger.Error("Failed to resolve credentials: %v", err)
		os.Exit(1)
	}

	clients, err := firebase.NewClients(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}
	defer clients.Close()

	userRepo := repository.NewFirestoreUserRepository(clients.Firestore)
	shopRepo := repository.NewFirestoreShopRepository(clients.Firestore)
	orderRepo := repository.NewFirestoreOrderRepository(clients.Firestore)
	disputeRepo := repository.NewFirestoreDisputeRepository(clients.Firestore)
	notificationRepo := repository.NewFirestoreNotificationRepository(clients.Firestore)
	orderChatRepo := repository.NewFirestoreOrderChatRepository(clients.Firestore)
	verificationRepo := repository.NewFirestoreBankVerificationRepository(clients.Firestore)
	settingsRepo := repository.NewFirestoreSettingsRepository(clients.Firestore)

	m := metrics.New(prometheus.DefaultRegisterer)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter(nil)
	limiter.StartCleanupRoutine(ctx.Done())

	// Omise keys come from settings/omise, the environment is the fallback.
	omiseKeys := service.NewOmiseKeyLoader(settingsRepo, service.OmiseKeys{
		PublicKey: cfg.OmisePublicKey,
		SecretKey: cfg.OmiseSecretKey,
		Mode:      cfg.OmiseMode,
	}, cfg.OmiseKeyCacheTTL)
	payouts := service.NewOmisePayoutService(omiseKeys)
	refunds := service.NewStripeRefundService(cfg.StripeSecretKey)

	var mailer usecase.EmailSender
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridClient(cfg.SendGridAPIKey, "GameCodeShop")
	} else {
		logger.Warn("SENDGRID_API_KEY not set, admin e-mail alerts are disabled")
	}

	var sweepLock usecase.JobLock = lock.NewLocalLock()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL: %v", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		redisLock, err := lock.NewRedisLock(lock.NewRedisStore(redisClient), autoConfirmLockKey, 0)
		if err != nil {
			logger.Error("Failed to create sweep lock: %v", err)
			os.Exit(1)
		}
		sweepLock = redisLock
	}

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userRepo, wsManager, mailer, cfg.MailFrom, m)
	disputeUseCase := usecase.NewDisputeUseCase(disputeRepo, orderRepo, shopRepo, userRepo, notificationUseCase, refunds, limiter, m)
	autoConfirmUseCase := usecase.NewAutoConfirmUseCase(orderRepo, disputeRepo, shopRepo, notificationUseCase, sweepLock, cfg.AutoConfirmDays, m)
	orderChatUseCase := usecase.NewOrderChatUseCase(orderChatRepo, orderRepo, shopRepo, userRepo, notificationUseCase, wsManager, limiter, m)
	bankVerificationUseCase := usecase.NewBankVerificationUseCase(
		shopRepo,
		verificationRepo,
		payouts,
		omiseKeys,
		notificationUseCase,
		limiter,
		cfg.BankTransferMockMode,
		cfg.PromptPayEnabled,
		m,
	)
	bankAccountUseCase := usecase.NewBankAccountUseCase(shopRepo)

	handler.Setup(disputeUseCase, autoConfirmUseCase, orderChatUseCase, notificationUseCase, bankVerificationUseCase, bankAccountUseCase)
	handler.SetupHealthHandler()

	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, clients.Option)
		if err != nil {
			logger.Error("Failed to initialize Cloud Storage: %v", err)
			os.Exit(1)
		}
		defer storageClient.Close()
		handler.SetupEvidenceHandler(storageClient)
	} else {
		logger.Warn("STORAGE_BUCKET not set, evidence uploads are disabled")
	}

	if cfg.AutoConfirmInterval > 0 {
		autoConfirmUseCase.StartAutoConfirmJob(ctx, cfg.AutoConfirmInterval)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(clients.Auth)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware, router.Options{
		CronSecret: cfg.CronSecret,
		Limiter:    limiter,
	})
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(wsManager, authMiddleware, cfg.WSAllowedOrigins))

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
