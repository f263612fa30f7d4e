package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vse-rental/storefront/internal/catalog"
	"github.com/vse-rental/storefront/internal/clients"
	"github.com/vse-rental/storefront/internal/config"
	"github.com/vse-rental/storefront/internal/dispatch"
	"github.com/vse-rental/storefront/internal/handlers"
	"github.com/vse-rental/storefront/internal/mail"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
	"github.com/vse-rental/storefront/internal/service"
	"github.com/vse-rental/storefront/internal/submission"
	"github.com/vse-rental/storefront/internal/telemetry"
)

// app is the fully wired service
type app struct {
	handler http.Handler
	catalog *catalog.Catalog
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// newApp builds every component from cfg. A catalog that fails to load at
// startup leaves the service running with an empty catalog until a reload
// succeeds.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{catalog: catalog.New()}

	// Catalog
	loader := catalogLoader(cfg)
	log.Info("loading catalog...", "source", loader.Source())
	if err := a.catalog.Reload(ctx, loader); err != nil {
		log.Error("failed to load catalog", "error", err)
	} else {
		stats := a.catalog.Stats()
		log.Info("catalog loaded successfully",
			"products", stats.Products,
			"categories", stats.Categories,
		)
	}

	// Cart storage
	store, closeStore, err := cartStore(ctx, cfg.Cart)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	// Outbound clients
	ingestion := clients.NewIngestionClient(cfg.Ingestion.URL,
		telemetry.NewHTTPClient(seconds(cfg.Ingestion.Timeout)))

	var transport mail.Transport = mail.DisabledTransport{}
	if cfg.Mail.MailConfigured() {
		transport = mail.NewSMTPTransport(mail.SMTPConfig{
			Host:    cfg.Mail.Host,
			Port:    cfg.Mail.Port,
			User:    cfg.Mail.User,
			Pass:    cfg.Mail.Pass,
			Timeout: seconds(cfg.Mail.Timeout),
		})
	} else {
		log.Warn("mail transport not configured, emails will fail until EMAIL_HOST and EMAIL_RECEIVER are set")
	}
	sender := cfg.Mail.User
	if sender == "" {
		sender = cfg.Mail.Receiver
	}
	notifier := mail.NewNotifier(
		transport,
		mail.NewHTTPImageFetcher(telemetry.NewHTTPClient(seconds(cfg.Mail.Timeout))),
		cfg.Mail.FromName,
		sender,
		cfg.Mail.Receiver,
		log,
	)

	var dispatchNotifier dispatch.Notifier = notifier
	if cfg.Mail.EndpointURL != "" {
		dispatchNotifier = clients.NewMailClient(cfg.Mail.EndpointURL,
			telemetry.NewHTTPClient(seconds(cfg.Mail.Timeout)))
	}

	dispatcher := dispatch.NewDispatcher(ingestion, dispatchNotifier, log,
		dispatch.WithCompletion(func(s models.Submission) {
			log.Info("submission completed", "order_id", s.OrderID, "kind", s.Kind)
		}),
	)

	// Services
	productRepo := repository.NewCatalogProductRepository(a.catalog)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(productRepo, store, log)
	checkoutService := service.NewCheckoutService(cartService,
		submission.NewBuilder(orderIDGenerator(cfg.Order)), dispatcher, log)

	a.handler = newRouter(cfg, routes{
		health:   handlers.NewHealthHandler(a.catalog, cfg.Cart.Backend, log),
		products: handlers.NewProductHandler(productService, log),
		catalog:  handlers.NewCatalogHandler(a.catalog, loader, log),
		cart:     handlers.NewCartHandler(cartService, log),
		checkout: handlers.NewCheckoutHandler(checkoutService, log),
		submit:   handlers.NewSubmitHandler(ingestion, log),
		email:    handlers.NewEmailHandler(notifier, log),
	}, log)

	return a, nil
}

func catalogLoader(cfg *config.Config) catalog.Loader {
	if cfg.Catalog.File != "" {
		return catalog.NewFileLoader(cfg.Catalog.File)
	}
	return catalog.NewHTTPLoader(cfg.Catalog.URL, telemetry.NewHTTPClient(seconds(cfg.Catalog.Timeout)))
}

func cartStore(ctx context.Context, cfg config.CartConfig) (repository.CartStore, func() error, error) {
	if cfg.Backend != config.CartBackendRedis {
		return repository.NewMemoryCartStore(), nil, nil
	}

	client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return repository.NewRedisCartStore(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil
}

func orderIDGenerator(cfg config.OrderConfig) submission.OrderIDGenerator {
	if cfg.IDFormat == config.OrderIDUUID {
		return submission.UUIDOrderID{Prefix: cfg.IDPrefix}
	}
	return submission.LegacyOrderID{Prefix: cfg.IDPrefix}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
