// Package handler はWeb層のブラウザ向け/api ルートを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/feature/bridge/domain"
	"blog_backend/internal/feature/bridge/usecase"
)

// SessionUsecase はハンドラーが依存するセッション操作を定義します。
type SessionUsecase interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, json.RawMessage, error)
	Me(ctx context.Context, token string) (json.RawMessage, error)
}

// CookieConfig はWeb層が設定するCookieの設定です。
type CookieConfig struct {
	AuthName    string
	RefreshName string
	MaxAge      time.Duration
	Secure      bool
}

// SessionHandler はAPIトークンをhttpOnly Cookieで保持します。
type SessionHandler struct {
	uc     SessionUsecase
	cookie CookieConfig
}

// NewSessionHandler はSessionHandlerの新しいインスタンスを生成します。
func NewSessionHandler(uc SessionUsecase, cookie CookieConfig) *SessionHandler {
	return &SessionHandler{uc: uc, cookie: cookie}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login はPOST /api/auth/login を処理します。
func (h *SessionHandler) Login(c *gin.Context) {
	var req credentials
	_ = c.ShouldBindJSON(&req)

	token, err := h.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("web login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		h.fail(c, err, "Login failed")
		return
	}
	h.setSession(c, token)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Register はPOST /api/auth/register を処理します。
func (h *SessionHandler) Register(c *gin.Context) {
	var req credentials
	_ = c.ShouldBindJSON(&req)

	token, user, err := h.uc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		slog.Warn("web register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		h.fail(c, err, "Registration failed")
		return
	}
	h.setSession(c, token)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Account created successfully", "user": user})
}

// Me はGET /api/auth/me を処理します。
// セッションがない、または拒否された場合は{"user": null}付きで401を返します。
func (h *SessionHandler) Me(c *gin.Context) {
	token, _ := c.Cookie(h.cookie.AuthName)
	user, err := h.uc.Me(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout はPOST /api/auth/logout を処理します。APIは呼び出しません。
func (h *SessionHandler) Logout(c *gin.Context) {
	h.clear(c, h.cookie.AuthName)
	h.clear(c, h.cookie.RefreshName)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *SessionHandler) fail(c *gin.Context, err error, fallback string) {
	var re *domain.RelayError
	switch {
	case errors.Is(err, usecase.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
	case errors.Is(err, usecase.ErrNameTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required and must be at least 2 characters"})
	case errors.As(err, &re):
		msg := re.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(re.Status, gin.H{"error": msg})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
	}
}

func (h *SessionHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.AuthName, token, int(h.cookie.MaxAge/time.Second), "/", "", h.cookie.Secure, true)
}

func (h *SessionHandler) clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.cookie.Secure, true)
}
