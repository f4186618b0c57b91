package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/feature/bridge/usecase"
)

// ProxyHandler はブラウザからのブログ操作を、セッションCookieをBearerトークンとして付与してAPIに転送します。
type ProxyHandler struct {
	api        usecase.Upstream
	cookieName string
}

// NewProxyHandler はProxyHandlerの新しいインスタンスを生成します。
func NewProxyHandler(api usecase.Upstream, cookieName string) *ProxyHandler {
	return &ProxyHandler{api: api, cookieName: cookieName}
}

// ListBlogs はGET /api/blog を処理します。
func (h *ProxyHandler) ListBlogs(c *gin.Context) {
	h.forward(c, http.MethodGet, "/blog/blogs", false, "Failed to fetch blogs")
}

// CreateBlog はPOST /api/blog を処理します。
func (h *ProxyHandler) CreateBlog(c *gin.Context) {
	h.forward(c, http.MethodPost, "/blog/blogs", false, "Failed to create blog")
}

// ListUserBlogs はGET /api/blog/user を処理します。
func (h *ProxyHandler) ListUserBlogs(c *gin.Context) {
	h.forward(c, http.MethodGet, "/blog/user-blogs", true, "Failed to fetch user blogs")
}

// GetBlog はGET /api/blog/:id を処理します。
func (h *ProxyHandler) GetBlog(c *gin.Context) {
	h.forward(c, http.MethodGet, blogPath(c), false, "Failed to fetch blog")
}

// UpdateBlog はPUT /api/blog/:id を処理します。
func (h *ProxyHandler) UpdateBlog(c *gin.Context) {
	h.forward(c, http.MethodPut, blogPath(c), true, "Failed to update blog")
}

// DeleteBlog はDELETE /api/blog/:id を処理します。
func (h *ProxyHandler) DeleteBlog(c *gin.Context) {
	h.forward(c, http.MethodDelete, blogPath(c), true, "Failed to delete blog")
}

func blogPath(c *gin.Context) string {
	return "/blog/blogs/" + url.PathEscape(c.Param("id"))
}

// forward は2xxの応答をそのまま中継し、それ以外は{"error": failMsg}として返します。
func (h *ProxyHandler) forward(c *gin.Context, method, path string, needAuth bool, failMsg string) {
	token, _ := c.Cookie(h.cookieName)
	if needAuth && token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var body []byte
	if method == http.MethodPost || method == http.MethodPut {
		b, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		body = b
	}

	resp, err := h.api.Do(c.Request.Context(), method, path, token, body)
	if err != nil {
		slog.Error("blog proxy upstream failed", "error", err, "method", method, "path", path)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
		return
	}
	if !resp.OK() {
		c.JSON(resp.Status, gin.H{"error": failMsg})
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}
