package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/config"
	"github.com/vervelak/lastwar-alliance-manager/internal/handler"
	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/middleware"
	"github.com/vervelak/lastwar-alliance-manager/internal/service"
	"github.com/vervelak/lastwar-alliance-manager/internal/state"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("bad timezone", "err", err)
		os.Exit(1)
	}

	secret := []byte(cfg.Console.SessionSecret)
	if len(secret) == 0 {
		secret = randomKey()
		slog.Warn("console.session_secret not set; sessions will not survive a restart")
	}
	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		slog.Error("bad csrf key", "err", err)
		os.Exit(1)
	}
	if csrfKey == nil {
		csrfKey = randomKey()
		slog.Warn("security.csrf_key not set; generated a random key")
	}

	api := backend.New(cfg.Backend.BaseURL, cfg.BackendTimeout())
	authSvc := service.NewAuthService(api)
	awardSvc := service.NewAwardService(api)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore(cfg.SessionTTL())
	go store.Run(ctx, time.Minute)

	sessions := middleware.NewSessions(secret, cfg.SessionTTL(), cfg.Console.SecureCookies)
	awardsH := handler.NewAwardsHandler(authSvc, awardSvc, store, sessions, cfg.Console.LoginURL, loc)

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(awardsH, handler.RouterOptions{
		AllowOrigins: cfg.Server.AllowOrigins,
		CSRF:         middleware.CSRF(csrfKey, cfg.Console.SecureCookies, cfg.Security.TrustedOrigins),
		Metrics:      cfg.Metrics.Enabled,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}

func randomKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}
