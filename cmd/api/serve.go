package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mayankmishra0403/printhub/internal/config"
	"github.com/mayankmishra0403/printhub/internal/domain/lifecycle"
	"github.com/mayankmishra0403/printhub/internal/domain/pricing"
	"github.com/mayankmishra0403/printhub/internal/handler"
	"github.com/mayankmishra0403/printhub/internal/infra/db"
	"github.com/mayankmishra0403/printhub/internal/infra/identity"
	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/infra/payment"
	infraRepo "github.com/mayankmishra0403/printhub/internal/infra/repository"
	"github.com/mayankmishra0403/printhub/internal/infra/storage"
	"github.com/mayankmishra0403/printhub/internal/infra/token"
	"github.com/mayankmishra0403/printhub/internal/logger"
	"github.com/mayankmishra0403/printhub/internal/server"
	"github.com/mayankmishra0403/printhub/internal/usecase"
	"github.com/mayankmishra0403/printhub/internal/verification"
	"github.com/mayankmishra0403/printhub/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
	}
	gormDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	// repositories
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	noteRepo := infraRepo.NewAdminNoteGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	idGen := &uuidGenerator{}
	clock := &realClock{}
	catalog := pricing.Default()

	codeStore, stopStore, err := newCodeStore(ctx, cfg, clock)
	if err != nil {
		return err
	}
	defer stopStore()

	mailer := newMailer(cfg)
	files := newFileStore(cfg)

	// interface vars stay untyped nil when the integration is off
	var gateway payment.Gateway
	if cfg.PaymentsEnabled() {
		gateway = payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	} else {
		logger.Log.Warn("razorpay not configured, payment endpoints answer 503")
	}
	var provider identity.Provider
	if cfg.Auth0Enabled() {
		provider = identity.NewAuth0(cfg.Auth0Domain, cfg.Auth0ClientID, cfg.Auth0ClientSecret, cfg.Auth0CallbackURL)
	} else {
		logger.Log.Warn("auth0 not configured, login answers 503")
	}

	issuer := verification.NewIssuer(codeStore, verification.NewBcryptCodeHasher(cfg.BcryptCost), clock, cfg.VerificationTTL)

	catalogUC := usecase.NewCatalogUsecase(catalog)
	verifyUC := usecase.NewVerificationUsecase(issuer, mailer)
	authUC := usecase.NewAuthUsecase(provider, userRepo, token.NewIssuer(cfg.JWTSecret, cfg.SessionTTL), idGen, clock)
	orderUC := usecase.NewOrderUsecase(orderRepo, catalog, files, mailer, idGen, clock)
	paymentUC := usecase.NewPaymentUsecase(txm, orderRepo, gateway, idGen, clock)
	adminUC := usecase.NewAdminOrderUsecase(txm, orderRepo, noteRepo, lifecycle.New(cfg.OrderStrictTransitions), mailer, clock)

	e := server.New(cfg, userRepo, server.Handlers{
		Catalog:      handler.NewCatalogHandler(catalogUC),
		Verification: handler.NewVerificationHandler(verifyUC),
		Auth:         handler.NewAuthHandler(authUC, cfg),
		Orders:       handler.NewOrderHandler(orderUC),
		Payments:     handler.NewPaymentHandler(paymentUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminUC),
	})

	return server.Run(ctx, e, cfg.Addr())
}

// newCodeStore picks Redis when configured. The in-memory store gets a
// sweeper so expired entries do not pile up.
func newCodeStore(ctx context.Context, cfg config.Config, clock verification.Clock) (verification.CodeStore, func(), error) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Log.Info("verification codes stored in redis", zap.String("addr", cfg.RedisAddr))
		return verification.NewRedisStore(rdb, clock), func() { _ = rdb.Close() }, nil
	}

	mem := verification.NewMemoryStore()
	sweeper := worker.NewSweeper(mem, clock.Now)
	if err := sweeper.Start(); err != nil {
		return nil, nil, err
	}
	stop := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sweeper.Stop(stopCtx)
	}
	return mem, stop, nil
}

func newMailer(cfg config.Config) mail.Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		return mail.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	case cfg.SMTPHost != "":
		return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	default:
		logger.Log.Warn("no mail provider configured, emails are only logged")
		return mail.LogMailer{}
	}
}

func newFileStore(cfg config.Config) storage.FileStore {
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	}
	logger.Log.Warn("supabase not configured, uploads go to local disk", zap.String("dir", cfg.UploadDir))
	return storage.NewLocalStore(cfg.UploadDir)
}
