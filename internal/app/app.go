// Package app wires the storefront service together: upstream client,
// product cache, session store, HTTP handlers and lifecycle.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/handler"
	"github.com/xenking/giftshop-storefront/internal/session"
	"github.com/xenking/giftshop-storefront/internal/upstream"
	"github.com/xenking/giftshop-storefront/pkg/health"
	"github.com/xenking/giftshop-storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("upstream", cfg.UpstreamURL),
	)

	// Upstream client + shared product cache.
	client := upstream.New(upstream.Config{
		BaseURL: cfg.UpstreamURL,
		Timeout: cfg.UpstreamTimeout,
	})
	cache := upstream.NewProductCache(func(ctx context.Context) ([]catalog.Product, error) {
		return client.Products(ctx, upstream.ListOptions{Limit: 100, Page: 1})
	}, cfg.Catalog.CacheTTL)

	// Admin session store.
	var sessions session.Store
	if cfg.SessionFile != "" {
		fileStore, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			return errors.Wrap(err, "open session store")
		}
		sessions = fileStore
	} else {
		sessions = session.NewMemoryStore()
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("upstream", 5*time.Second, client.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.NewHandler(handler.Config{
		WhatsAppNumber: cfg.WhatsAppNumber,
		CatalogPerPage: cfg.Catalog.PerPage,
		ReviewPageSize: cfg.Catalog.ReviewPageSize,
		HomePopularCap: cfg.Catalog.HomePopularCap,
		HomeTotalCap:   cfg.Catalog.HomeTotalCap,
	}, cache, client, sessions)

	router := mux.NewRouter()
	router.HandleFunc("/livez", healthSvc.LiveEndpoint)
	router.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(router)
	// Route-aware middlewares go on the router so the matched template is
	// available; everything else wraps outside.
	router.Use(
		mux.MiddlewareFunc(httpmiddleware.Instrument("giftshop-storefront")),
		mux.MiddlewareFunc(httpmiddleware.LogRequests()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(router,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
