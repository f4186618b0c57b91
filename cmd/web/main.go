package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_backend/internal/app/di"
	"blog_backend/internal/app/router"
	bridgehandler "blog_backend/internal/feature/bridge/transport/handler"
	bridgeusecase "blog_backend/internal/feature/bridge/usecase"
	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/logger"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadWeb()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)
	if !cfg.CookieOutlivesToken() {
		slog.Warn("session cookie expires before the token",
			config.EnvKeyCookieMaxAge, cfg.CookieMaxAge, config.EnvKeyJWTExpiresIn, cfg.TokenTTL)
	}

	api := di.NewUpstream(cfg)
	cookies := bridgehandler.CookieConfig{
		AuthName:    cfg.AuthCookieName,
		RefreshName: cfg.RefreshCookieName,
		MaxAge:      cfg.CookieMaxAge,
		Secure:      cfg.SecureCookies(),
	}

	sessionH := bridgehandler.NewSessionHandler(bridgeusecase.NewSessionUsecase(api), cookies)
	proxyH := bridgehandler.NewProxyHandler(api, cfg.AuthCookieName)

	r := router.NewWebRouter(sessionH, proxyH)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("web listening", "addr", srv.Addr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
