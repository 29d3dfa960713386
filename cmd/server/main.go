package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AdrianDanlos/rythm/internal"
	"github.com/AdrianDanlos/rythm/internal/api"
	"github.com/AdrianDanlos/rythm/internal/auth"
	"github.com/AdrianDanlos/rythm/internal/cache"
	"github.com/AdrianDanlos/rythm/internal/config"
	"github.com/AdrianDanlos/rythm/internal/service"
	"github.com/AdrianDanlos/rythm/internal/storage"
)

const demoToken = "MOCK-TOKEN"

type app struct {
	logger internal.Logger
	svc    *service.Service
}

func (a *app) Logger() internal.Logger { return a.logger }
func (a *app) Service() api.Service    { return a.svc }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	if cfg.Env == "development" {
		seedDemoUser(ctx, store, logger)
	}

	c, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StatsCacheTTL, logger)
	if err != nil {
		logger.Fatalf("failed to init cache: %v", err)
	}
	defer c.Close()

	svc := service.New(store, c, logger, service.Options{
		SleepThreshold: cfg.SleepThreshold,
		Location:       cfg.Location(),
	})

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(&app{logger: logger, svc: svc}, auth.NewProvider(cfg, store, logger))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server listening on %s (env=%s, storage=%s)", cfg.Addr, cfg.Env, cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}

// seedDemoUser makes the static demo token usable on a fresh data dir.
func seedDemoUser(ctx context.Context, store storage.Store, logger internal.Logger) {
	_, err := store.GetUserByToken(ctx, demoToken)
	if err == nil {
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.Warnf("demo user lookup: %v", err)
		return
	}
	if err := store.SaveUser(ctx, &internal.User{ID: "u1", Token: demoToken, Name: "Demo User"}); err != nil {
		logger.Warnf("demo user seed: %v", err)
		return
	}
	logger.Infof("seeded demo user u1 with token %s", demoToken)
}
