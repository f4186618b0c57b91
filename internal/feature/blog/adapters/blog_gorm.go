// Package adapters はblogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"blog_backend/internal/feature/blog/domain"
	"blog_backend/internal/feature/blog/domain/entity"
	"blog_backend/internal/feature/blog/usecase"
)

type blogGorm struct {
	db *gorm.DB
}

var _ usecase.BlogRepository = (*blogGorm)(nil)

// NewBlogGorm はGORMを使うブログリポジトリを生成します。
func NewBlogGorm(db *gorm.DB) *blogGorm {
	return &blogGorm{db: db}
}

// Create はステータスLATESTで新しい記事を登録します。
func (r *blogGorm) Create(ctx context.Context, b *entity.Blog) error {
	if b == nil {
		return errors.New("blog is nil")
	}
	b.RecordStatus = entity.StatusLatest
	return r.db.WithContext(ctx).Create(b).Error
}

// ListLatest は公開中の記事を新しい順に返します。
func (r *blogGorm) ListLatest(ctx context.Context) ([]entity.Blog, error) {
	var out []entity.Blog
	err := r.db.WithContext(ctx).
		Where("record_status = ?", entity.StatusLatest).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// ListByAuthor は著者の公開中の記事を新しい順に返します。
func (r *blogGorm) ListByAuthor(ctx context.Context, authorID uint) ([]entity.Blog, error) {
	var out []entity.Blog
	err := r.db.WithContext(ctx).
		Where("record_status = ? AND author_id = ?", entity.StatusLatest, authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// FindByID はステータスに関係なく記事を返します。存在しない場合はdomain.ErrBlogNotFoundを返します。
func (r *blogGorm) FindByID(ctx context.Context, id uint) (*entity.Blog, error) {
	var b entity.Blog
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update はb.IDの行のタイトル・本文・ステータスを書き込みます。
func (r *blogGorm) Update(ctx context.Context, b *entity.Blog) error {
	res := r.db.WithContext(ctx).Model(&entity.Blog{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":         b.Title,
		"content":       b.Content,
		"record_status": b.RecordStatus,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}
