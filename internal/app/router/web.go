package router

import (
	"github.com/gin-gonic/gin"

	bridgehandler "blog_backend/internal/feature/bridge/transport/handler"
	"blog_backend/internal/platform/http/handler"
	"blog_backend/internal/platform/http/middleware"
)

// NewWebRouter はWeb層のブラウザ向けエンジンを構築します。
func NewWebRouter(session *bridgehandler.SessionHandler, proxy *bridgehandler.ProxyHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", handler.Health("blogs-web"))
	r.HEAD("/healthz", handler.Health("blogs-web"))

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", session.Login)
		auth.POST("/register", session.Register)
		auth.GET("/me", session.Me)
		auth.POST("/logout", session.Logout)
	}

	blog := r.Group("/api/blog")
	{
		blog.GET("", proxy.ListBlogs)
		blog.POST("", proxy.CreateBlog)
		blog.GET("/user", proxy.ListUserBlogs)
		blog.GET("/:id", proxy.GetBlog)
		blog.PUT("/:id", proxy.UpdateBlog)
		blog.DELETE("/:id", proxy.DeleteBlog)
	}

	return r
}
