// Package handler はblogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"blog_backend/internal/feature/blog/domain"
	"blog_backend/internal/feature/blog/domain/entity"
	"blog_backend/internal/feature/blog/transport/http/dto"
	"blog_backend/internal/feature/blog/usecase"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/platform/http/response"
	"blog_backend/internal/shared/apperr"
)

// BlogUsecase はブログ記事操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BlogUsecase interface {
	Create(ctx context.Context, author usecase.Author, title, content string) (*entity.Blog, error)
	List(ctx context.Context) ([]entity.Blog, error)
	ListMine(ctx context.Context, authorID uint) ([]entity.Blog, error)
	Get(ctx context.Context, id uint) (*entity.Blog, error)
	Update(ctx context.Context, id uint, title, content string) (*entity.Blog, error)
	Delete(ctx context.Context, id uint) error
}

// BlogHandler はブログ記事のHTTPリクエストを処理します。
type BlogHandler struct {
	uc BlogUsecase
}

// NewBlogHandler は指定されたusecaseでBlogHandlerの新しいインスタンスを生成します。
func NewBlogHandler(uc BlogUsecase) *BlogHandler {
	return &BlogHandler{uc: uc}
}

// Create は記事を作成します。
//
// エンドポイント例:
// POST /blog/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c.Request.Context())
	if !ok {
		response.Error(c, apperr.Unauthorized("Unauthorized"))
		return
	}
	var req dto.CreateBlogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindError(err))
		return
	}
	blog, err := h.uc.Create(c.Request.Context(), usecase.Author{ID: user.ID, Name: user.Name}, req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("blog created", "blog_id", blog.ID, "user_id", user.ID)
	response.OK(c, http.StatusCreated, "Blog created", blog)
}

// List は公開中の記事一覧を返します（GET /blog/blogs）。
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.uc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", blogs)
}

// ListMine はログインユーザーの記事一覧を返します（GET /blog/user-blogs）。
func (h *BlogHandler) ListMine(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c.Request.Context())
	if !ok {
		response.Error(c, apperr.Unauthorized("Unauthorized"))
		return
	}
	blogs, err := h.uc.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", blogs)
}

// Get は記事を1件返します（GET /blog/blogs/:id）。
func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	blog, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", blog)
}

// Update は記事を更新します（PUT /blog/blogs/:id）。
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateBlogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindError(err))
		return
	}
	blog, err := h.uc.Update(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Blog updated", blog)
}

// Delete は記事を論理削除します（DELETE /blog/blogs/:id）。
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("blog deleted", "blog_id", id)
	response.OK(c, http.StatusOK, "Blog deleted", nil)
}

// pathID はパスパラメータ:idをバインドします。
// 不正なidは存在しないidと同じく404を返します。
func pathID(c *gin.Context) (uint, bool) {
	var id int64
	err := runtime.BindStyledParameterWithLocation("simple", false, "id", runtime.ParamLocationPath, c.Param("id"), &id)
	if err != nil || id <= 0 {
		response.Error(c, domain.ErrBlogNotFound)
		return 0, false
	}
	return uint(id), true
}
