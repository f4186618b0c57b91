// Package usecase はblogフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"blog_backend/internal/feature/blog/domain"
	"blog_backend/internal/feature/blog/domain/entity"
	"blog_backend/internal/shared/apperr"
)

// BlogRepository はブログ記事の永続化層を抽象化します。
type BlogRepository interface {
	// Create はbを登録し、IDとタイムスタンプを設定します。
	Create(ctx context.Context, b *entity.Blog) error
	// ListLatest はLATESTの記事を新しい順に返します。
	ListLatest(ctx context.Context) ([]entity.Blog, error)
	// ListByAuthor は著者のLATESTの記事を新しい順に返します。
	ListByAuthor(ctx context.Context, authorID uint) ([]entity.Blog, error)
	// FindByID は該当する行がない場合、domain.ErrBlogNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Blog, error)
	// Update はbのタイトル・本文・ステータスを保存します。
	Update(ctx context.Context, b *entity.Blog) error
}

// Author は記事を書くユーザーを表します。
type Author struct {
	ID   uint
	Name string
}

type blogUsecase struct {
	repo BlogRepository
}

// NewBlogUsecase はblogUsecaseの新しいインスタンスを生成します。
func NewBlogUsecase(repo BlogRepository) *blogUsecase {
	return &blogUsecase{repo: repo}
}

// Create はauthorを著者とする新しい記事を公開します。
func (u *blogUsecase) Create(ctx context.Context, author Author, title, content string) (*entity.Blog, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var fields []apperr.FieldError
	if title == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "title is required"})
	}
	if content == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Message: "content is required"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation error", fields...)
	}

	b := &entity.Blog{
		Title:    title,
		Content:  content,
		Author:   author.Name,
		AuthorID: author.ID,
	}
	if err := u.repo.Create(ctx, b); err != nil {
		return nil, apperr.Internal("failed to create blog", err)
	}
	return b, nil
}

// List は公開中の記事をすべて返します。
func (u *blogUsecase) List(ctx context.Context) ([]entity.Blog, error) {
	blogs, err := u.repo.ListLatest(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list blogs", err)
	}
	return nonNil(blogs), nil
}

// ListMine はauthorIDが書いた公開中の記事を返します。
func (u *blogUsecase) ListMine(ctx context.Context, authorID uint) ([]entity.Blog, error) {
	blogs, err := u.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperr.Internal("failed to list user blogs", err)
	}
	return nonNil(blogs), nil
}

// Get は公開中の記事を返します。論理削除済みの記事は未検出として扱います。
func (u *blogUsecase) Get(ctx context.Context, id uint) (*entity.Blog, error) {
	return u.find(ctx, id)
}

// Update は公開中の記事のタイトルと本文を置き換えます。
// 空の値は保存済みの値を維持します。
func (u *blogUsecase) Update(ctx context.Context, id uint, title, content string) (*entity.Blog, error) {
	b, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(title); t != "" {
		b.Title = t
	}
	if c := strings.TrimSpace(content); c != "" {
		b.Content = c
	}
	if err := u.repo.Update(ctx, b); err != nil {
		return nil, wrapRepo("failed to update blog", err)
	}
	return b, nil
}

// Delete は公開中の記事をDELETEDにします。
func (u *blogUsecase) Delete(ctx context.Context, id uint) error {
	b, err := u.find(ctx, id)
	if err != nil {
		return err
	}
	b.RecordStatus = entity.StatusDeleted
	if err := u.repo.Update(ctx, b); err != nil {
		return wrapRepo("failed to delete blog", err)
	}
	return nil
}

func (u *blogUsecase) find(ctx context.Context, id uint) (*entity.Blog, error) {
	if id == 0 {
		return nil, domain.ErrBlogNotFound
	}
	b, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepo("failed to load blog", err)
	}
	if b.IsDeleted() {
		return nil, domain.ErrBlogNotFound
	}
	return b, nil
}

func wrapRepo(msg string, err error) error {
	if errors.Is(err, domain.ErrBlogNotFound) {
		return domain.ErrBlogNotFound
	}
	return apperr.Internal(msg, err)
}

func nonNil(b []entity.Blog) []entity.Blog {
	if b == nil {
		return []entity.Blog{}
	}
	return b
}
