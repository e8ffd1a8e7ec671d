package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
	"github.com/bandipurcablecar/website-sub001/internal/handlers"
	"github.com/bandipurcablecar/website-sub001/internal/health"
	"github.com/bandipurcablecar/website-sub001/internal/nav"
	"github.com/bandipurcablecar/website-sub001/internal/platform/config"
	pfirestore "github.com/bandipurcablecar/website-sub001/internal/platform/firestore"
	"github.com/bandipurcablecar/website-sub001/internal/platform/observability"
	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
	"github.com/bandipurcablecar/website-sub001/internal/routes"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("web")
	ctx = requestctx.WithLogger(ctx, logger)

	cfg, err := config.Load(ctx)
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, closeStore, err := openContentStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open content store", zap.Error(err))
	}
	defer closeStore()

	guarded := contentstore.NewGuarded(store,
		contentstore.WithReadTimeout(cfg.Content.ReadTimeout),
		contentstore.WithRetries(cfg.Content.Retries, 100*time.Millisecond),
	)

	contentService, err := content.NewService(content.Deps{
		Store: guarded,
		Defaults: content.SiteSettings{
			CompanyName:  cfg.Site.Name,
			ContactEmail: cfg.Site.ContactEmail,
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise content service", zap.Error(err))
	}

	loader, err := nav.NewLoader(contentService)
	if err != nil {
		logger.Fatal("failed to initialise navigation loader", zap.Error(err))
	}
	snapshot := nav.NewSnapshot(loader)

	resolver, err := routes.NewResolver(contentService, routes.WithSiteName(cfg.Site.Name))
	if err != nil {
		logger.Fatal("failed to initialise resolver", zap.Error(err))
	}

	checker, err := health.NewChecker([]health.Check{
		{Name: "contentstore", Timeout: cfg.Content.ReadTimeout, Probe: guarded.Ping},
	}, health.WithEnvironment(cfg.Environment))
	if err != nil {
		logger.Fatal("failed to initialise health checks", zap.Error(err))
	}

	siteHandlers, err := handlers.NewSiteHandlers(
		handlers.WithSiteNavigation(snapshot),
		handlers.WithSiteResolver(resolver),
		handlers.WithSiteContent(contentService),
		handlers.WithSiteName(cfg.Site.Name),
	)
	if err != nil {
		logger.Fatal("failed to initialise site handlers", zap.Error(err))
	}
	publicHandlers := handlers.NewPublicHandlers(
		handlers.WithPublicNavigation(snapshot),
		handlers.WithPublicResolver(resolver),
		handlers.WithPublicContent(contentService),
	)

	projectID := strings.TrimSpace(cfg.Firestore.ProjectID)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(handlers.WithReadiness(checker))),
		handlers.WithPublicRoutes(publicHandlers.Routes),
		handlers.WithSiteRoutes(siteHandlers.Routes),
	)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(
		zap.String("addr", server.Addr),
		zap.String("content_source", cfg.Content.Source),
	)
	go func() {
		serverLogger.Info("bandipur cable car site listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openContentStore selects the configured backend. The returned func releases
// any connection it holds.
func openContentStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (contentstore.Client, func(), error) {
	switch cfg.Content.Source {
	case config.ContentSourceFiles:
		store, err := contentstore.LoadDir(cfg.Content.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("serving content from files",
			zap.String("dir", cfg.Content.Dir),
			zap.Strings("collections", store.Collections()),
		)
		return store, func() {}, nil
	case config.ContentSourceFirestore:
		provider := pfirestore.NewProvider(cfg.Firestore)
		if _, err := provider.Client(ctx); err != nil {
			return nil, nil, err
		}
		store, err := contentstore.NewFirestore(provider)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("serving content from firestore", zap.String("target", provider.Target()))
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Close(closeCtx); err != nil {
				logger.Warn("firestore close error", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content source %q", cfg.Content.Source)
	}
}
