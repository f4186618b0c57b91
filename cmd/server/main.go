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

	redisv9 "github.com/redis/go-redis/v9"

	"blog_backend/internal/app/di"
	"blog_backend/internal/app/router"
	authadapters "blog_backend/internal/feature/auth/adapters"
	authhandler "blog_backend/internal/feature/auth/transport/handler"
	authusecase "blog_backend/internal/feature/auth/usecase"
	bloghandler "blog_backend/internal/feature/blog/transport/handler"
	blogusecase "blog_backend/internal/feature/blog/usecase"
	"blog_backend/internal/platform/config"
	platformdb "blog_backend/internal/platform/db"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/platform/logger"
	platformredis "blog_backend/internal/platform/redis"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadAPI()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)

	// DB接続
	db, err := platformdb.Open(platformdb.LoadConfigFromEnv())
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(context.Background(), platformredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	codec, err := di.NewTokenCodec(cfg)
	if err != nil {
		slog.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	blogRepo := di.NewBlogRepository(rdb, db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, codec, cfg.BcryptCost)
	blogUC := blogusecase.NewBlogUsecase(blogRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	blogH := bloghandler.NewBlogHandler(blogUC)

	r := router.NewRouter(cfg.CORSAllowOrigins, jwtmw.AuthRequired(codec, userRepo), authH, blogH)

	serve(":"+cfg.Port, r)
}

// serve はSIGINTまたはSIGTERMまでhを提供し、処理中のリクエストを完了させてから終了します。
func serve(addr string, h http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("api listening", "addr", addr)
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
