// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/transport/http/dto"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/platform/http/response"
	"blog_backend/internal/shared/apperr"
)

// AuthUsecase は認証操作のユースケースを定義します。
// インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、公開用ユーザー情報とトークンを返します。
	Register(ctx context.Context, name, email, password string) (*entity.PublicUser, string, error)
	// Login はユーザーを認証し、公開用ユーザー情報とトークンを返します。
	Login(ctx context.Context, email, password string) (*entity.PublicUser, string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイント（POST /auth/register）を処理します。
// - バリデーションエラー時は422を返却
// - メールアドレス重複時は409を返却
// - 成功時は{user, token}付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.BindError(err))
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	response.OK(c, http.StatusCreated, "Registration successful", dto.AuthRes{User: user, Token: token})
}

// Login はユーザーログインAPIエンドポイント（POST /auth/login）を処理します。
// - バリデーションエラー時は422を返却
// - 認証失敗時は、どちらが誤っていても同じ401を返却
// - 認証成功時は{user, token}付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.BindError(err))
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	response.OK(c, http.StatusOK, "Login successful", dto.AuthRes{User: user, Token: token})
}

// Me はGET /auth/me を処理します。jwtmw.AuthRequired の後ろで実行すること。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c.Request.Context())
	if !ok {
		response.Error(c, apperr.Unauthorized("Unauthorized"))
		return
	}
	response.OK(c, http.StatusOK, "", dto.MeRes{User: user})
}
