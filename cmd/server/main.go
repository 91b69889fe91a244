package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/storefront/internal/catalog"
	"github.com/alextreichler/storefront/internal/config"
	"github.com/alextreichler/storefront/internal/events"
	"github.com/alextreichler/storefront/internal/handlers"
	"github.com/alextreichler/storefront/internal/store"
	"github.com/alextreichler/storefront/web"
)

func main() {
	// Configure slog as early as possible
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Open the record store (json files or sqlite, migrations included)
	backend, err := store.OpenBackend(cfg.StoreDriver, cfg.DataDir, cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	st := store.NewStore(backend)
	defer st.Close()

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(web.Templates()); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Lifecycle events
	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQP(cfg.AMQPURL, cfg.EventsExch)
		if err != nil {
			slog.Error("Failed to connect to AMQP broker, events disabled", "error", err)
		} else {
			publisher = amqpPublisher
			slog.Info("Publishing lifecycle events", "exchange", cfg.EventsExch)
		}
	}
	defer publisher.Close()

	// 6. Handlers and routes
	base := &handlers.Base{
		Store:        st,
		Catalog:      catalog.NewLoader(cfg.CatalogPath),
		SessionStore: sessionStore,
		Templates:    templates,
		Events:       publisher,
	}
	// Login, registration and contact form: one POST per client every few seconds
	rateLimiter := handlers.NewRateLimiter(3 * time.Second)
	mux, router := handlers.NewRouter(base, rateLimiter)

	// 7. Middleware Setup
	protected := handlers.Protect(router, cfg.CSRFKey, cfg.CookieSecure,
		[]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"},
	)

	// Chain: Logger -> Security Headers -> CSRF -> Identity -> Mux
	handler := handlers.LoggingMiddleware(mux,
		handlers.SecurityHeadersMiddleware(protected),
	)

	// 8. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "driver", cfg.StoreDriver, "data_dir", cfg.DataDir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
