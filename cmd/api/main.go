package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/orcafacil/api/internal/api/http"
	"github.com/orcafacil/api/internal/api/http/handlers"
	"github.com/orcafacil/api/internal/auth"
	"github.com/orcafacil/api/internal/config"
	"github.com/orcafacil/api/internal/events"
	"github.com/orcafacil/api/internal/mail"
	"github.com/orcafacil/api/internal/observability"
	"github.com/orcafacil/api/internal/pdf"
	"github.com/orcafacil/api/internal/persistence"
	"github.com/orcafacil/api/internal/repository"
	"github.com/orcafacil/api/internal/service"
	"github.com/orcafacil/api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	oneShot := repository.NewRedisOneShotStore(redis.Client)

	hasher, err := auth.NewHasher(cfg.Hash.Secret, cfg.Hash.Algo, cfg.Hash.Encoding)
	if err != nil {
		logger.Fatal("failed to build password hasher", zap.Error(err))
	}

	authTokens := auth.NewTokenService(cfg.Auth.JWTSecret, auth.SubjectAuth, cfg.Auth.AccessTokenTTL(), logger)
	confirmTokens := auth.NewTokenService(cfg.Auth.JWTSecret, auth.SubjectConfirm, cfg.Auth.ConfirmTokenTTL(), logger)
	resetTokens := auth.NewTokenService(cfg.Auth.JWTSecret, auth.SubjectReset, cfg.Auth.ResetTokenTTL(), logger)

	mailer := mail.New(cfg.Mail, logger)
	renderer := pdf.New(cfg.PDF)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo:   accountRepo,
		CustomerRepo:  customerRepo,
		InvoiceRepo:   invoiceRepo,
		Hasher:        hasher,
		AuthTokens:    authTokens,
		ConfirmTokens: confirmTokens,
		ResetTokens:   resetTokens,
		OneShot:       oneShot,
		Mailer:        mailer,
		MailConfig:    cfg.Mail,
		AuthConfig:    cfg.Auth,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	customerService := service.NewCustomerService(accountRepo, customerRepo, dispatcher, logger)
	invoiceService := service.NewInvoiceService(service.InvoiceDependencies{
		AccountRepo:   accountRepo,
		InvoiceRepo:   invoiceRepo,
		CustomerRepo:  customerRepo,
		MaterialRepo:  materialRepo,
		EquipmentRepo: equipmentRepo,
		Renderer:      renderer,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	catalogService := service.NewCatalogService(materialRepo, equipmentRepo, dispatcher, logger)
	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewMiddleware(authTokens, accountRepo, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Invoices:       handlers.NewInvoicesHandler(invoiceService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
