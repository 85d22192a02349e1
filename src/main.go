package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetit-server/src/api"
	"budgetit-server/src/chat"
	"budgetit-server/src/config"
	"budgetit-server/src/db"
	dbsql "budgetit-server/src/db/sql"
	"budgetit-server/src/db/sqlite"
	"budgetit-server/src/handlers"
	"budgetit-server/src/logger"
	"budgetit-server/src/services"
	"budgetit-server/src/session"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := logger.Init(cfg.LogDev, logger.LogLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatal("server failed", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()
	log := logger.Get()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	cache, err := db.NewSessionCache(10000, time.Minute)
	if err != nil {
		return err
	}
	defer cache.Close()

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// sessions will not survive a restart
		log.Warn("SESSION_SECRET not set, using a random per-process secret")
		if secret, err = session.RandomSecret(); err != nil {
			return err
		}
	}
	sessions := session.NewManager(sessionStore, cache, session.Options{
		Secret:      secret,
		IdleTimeout: cfg.SessionIdleTimeout,
		MaxAge:      cfg.SessionMaxAge,
	})
	if n, err := sessions.Sweep(ctx); err != nil {
		log.Warn("expired session sweep failed", zap.Error(err))
	} else if n > 0 {
		log.Info("removed expired sessions", zap.Int64("count", n))
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.RunSweeper(sweepCtx, cfg.SessionSweepEvery)

	svc := services.New(services.Deps{
		Store:      store,
		Sessions:   sessions,
		Responder:  newResponder(cfg),
		Clock:      services.Clock{Now: time.Now, Location: loc},
		BcryptCost: cfg.BcryptCost,
	})

	router := api.NewRouter(store, svc, sessions, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateBurst:  cfg.AuthRateBurst,
		Cookie:         handlers.CookieConfig{Secure: cfg.CookieSecure, MaxAge: cfg.SessionMaxAge},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second, // covers the chat backend's 10s timeout
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API server running",
			zap.String("port", cfg.Port),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("session_backend", cfg.SessionBackend),
			zap.String("chat_backend", cfg.ChatBackend),
			zap.Bool("demo_mode", cfg.DemoMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	stopSweep()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (db.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if err := db.RunMigrations(db.DriverPostgres, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("DB connection failed: %w", err)
		}
		return dbsql.NewStore(pool), nil
	default:
		return sqlite.Open(cfg.SQLiteDBPath)
	}
}

// openSessionStore returns where session records live and a func releasing it.
func openSessionStore(ctx context.Context, cfg config.Config, store db.Store) (db.SessionStore, func(), error) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		return store, func() {}, nil
	}
	client, err := session.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client), func() { client.Close() }, nil
}

func newResponder(cfg config.Config) chat.Responder {
	if cfg.ChatBackend == config.ChatBackendOpenAI {
		return chat.WithFallback(chat.NewExternalModel(cfg.ChatAPIURL, cfg.ChatAPIKey, cfg.ChatModel), chat.StaticLookup{})
	}
	return chat.StaticLookup{}
}
