// Package router は両バイナリのginエンジンを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "blog_backend/internal/feature/auth/transport/handler"
	bloghandler "blog_backend/internal/feature/blog/transport/handler"
	"blog_backend/internal/platform/http/handler"
	"blog_backend/internal/platform/http/middleware"
	"blog_backend/internal/platform/http/response"
)

// NewRouter はJSON APIのエンジンを構築します。
// authRequired はログインユーザーが必要なルートを保護します。
func NewRouter(allowOrigins []string, authRequired gin.HandlerFunc,
	authH *authhandler.AuthHandler, blogH *bloghandler.BlogHandler) *gin.Engine {
	response.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), corsMiddleware(allowOrigins))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health("blogs-api"))
	r.HEAD("/healthz", handler.Health("blogs-api"))

	auth := r.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/me", authRequired, authH.Me)
	}

	blog := r.Group("/blog")
	{
		blog.GET("/blogs", blogH.List)
		blog.GET("/blogs/:id", blogH.Get)
	}
	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	protected := blog.Group("")
	protected.Use(authRequired)
	{
		protected.POST("/blogs", blogH.Create)
		protected.GET("/user-blogs", blogH.ListMine)
		protected.PUT("/blogs/:id", blogH.Update)
		protected.DELETE("/blogs/:id", blogH.Delete)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
