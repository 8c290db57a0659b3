package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"tumaini_web/internal/apiclient"
	"tumaini_web/internal/config"
	"tumaini_web/internal/controllers"
	"tumaini_web/internal/guard"
	"tumaini_web/internal/logger"
	"tumaini_web/internal/metrics"
	"tumaini_web/internal/middleware"
	"tumaini_web/internal/routes"
	"tumaini_web/internal/store"
	"tumaini_web/internal/token"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("server exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize structured logging to file
	accessLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	tokens, closeTokens, err := openTokenStore(cfg)
	if err != nil {
		return err
	}
	defer closeTokens()

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	client, err := apiclient.New(cfg.APIBaseURL, tokens,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithRecorder(collector),
		apiclient.WithLogger(logrus.StandardLogger()),
	)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	st := store.New(client, tokens)
	hub := controllers.NewStateHub(cfg.AllowedOrigin)
	defer hub.Close()

	app := controllers.NewApp(st, hub, guard.Paths{Login: cfg.LoginPath, Unauthorized: cfg.UnauthorizedPath})
	client.OnUnauthorized(app.HandleUnauthorized)
	unsubscribe := st.Subscribe(app.BroadcastChange)
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Guarded routes answer 204 until this settles.
	restored := st.Auth.StartCheckAuthStatus(ctx)
	go func() {
		if err := <-restored; err != nil {
			logrus.WithError(err).Info("stored session not restored")
		}
	}()

	r := routes.SetupRouter(app, routes.Options{
		AccessLog: accessLog,
		Metrics:   metrics.Handler(prometheus.DefaultGatherer),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           middleware.EnableCORS(r, cfg.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   cfg.ListenAddr,
			"api":    cfg.APIBaseURL,
			"tokens": cfg.TokenStore,
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
	}

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openTokenStore picks the credential backend named by TOKEN_STORE.
func openTokenStore(cfg *config.Config) (token.Store, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return token.NewMemoryStore(), func() {}, nil
	case config.TokenStorePostgres:
		db, err := config.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("token database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("token database: %w", err)
		}
		return token.NewDBStore(db, cfg.TokenKey), func() { sqlDB.Close() }, nil
	default:
		return token.NewFileStore(cfg.TokenFile, cfg.TokenKey), func() {}, nil
	}
}
