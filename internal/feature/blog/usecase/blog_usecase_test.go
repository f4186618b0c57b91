package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/feature/blog/domain"
	"blog_backend/internal/feature/blog/domain/entity"
	"blog_backend/internal/shared/apperr"
)

// mockBlogRepository はテスト用のBlogRepositoryモック実装です。記事をIDごとにmapで保持します。
type mockBlogRepository struct {
	rows      map[uint]*entity.Blog
	nextID    uint
	createErr error
	listErr   error
	findErr   error
	updateErr error
}

func newMockRepo(rows ...*entity.Blog) *mockBlogRepository {
	m := &mockBlogRepository{rows: map[uint]*entity.Blog{}}
	for _, r := range rows {
		m.rows[r.ID] = r
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
	}
	return m
}

func (m *mockBlogRepository) Create(_ context.Context, b *entity.Blog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	b.ID = m.nextID
	b.RecordStatus = entity.StatusLatest
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *mockBlogRepository) ListLatest(context.Context) ([]entity.Blog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entity.Blog
	for _, r := range m.rows {
		if !r.IsDeleted() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockBlogRepository) ListByAuthor(_ context.Context, authorID uint) ([]entity.Blog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entity.Blog
	for _, r := range m.rows {
		if !r.IsDeleted() && r.AuthorID == authorID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockBlogRepository) FindByID(_ context.Context, id uint) (*entity.Blog, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockBlogRepository) Update(_ context.Context, b *entity.Blog) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

// TestBlogUsecase_Create は記事作成時の入力の整形とバリデーションを検証します。
func TestBlogUsecase_Create(t *testing.T) {
	t.Run("stores author and trimmed fields", func(t *testing.T) {
		repo := newMockRepo()
		uc := NewBlogUsecase(repo)

		b, err := uc.Create(context.Background(), Author{ID: 7, Name: "Alice"}, "  Hello ", " World ")
		require.NoError(t, err)
		assert.Equal(t, uint(1), b.ID)
		assert.Equal(t, "Hello", b.Title)
		assert.Equal(t, "World", b.Content)
		assert.Equal(t, "Alice", b.Author)
		assert.Equal(t, uint(7), b.AuthorID)
	})

	t.Run("blank title and content are rejected", func(t *testing.T) {
		uc := NewBlogUsecase(newMockRepo())

		_, err := uc.Create(context.Background(), Author{ID: 1}, "   ", "")
		e := apperr.As(err)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		require.Len(t, e.Fields, 2)
		assert.Equal(t, "title", e.Fields[0].Field)
		assert.Equal(t, "content", e.Fields[1].Field)
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		repo := newMockRepo()
		repo.createErr = errors.New("disk full")
		uc := NewBlogUsecase(repo)

		_, err := uc.Create(context.Background(), Author{ID: 1}, "t", "c")
		assert.Equal(t, apperr.KindInternal, apperr.As(err).Kind)
	})
}

// TestBlogUsecase_GetHidesDeleted は論理削除済みの記事が未検出として扱われることを検証します。
func TestBlogUsecase_GetHidesDeleted(t *testing.T) {
	repo := newMockRepo(
		&entity.Blog{ID: 1, Title: "live", RecordStatus: entity.StatusLatest},
		&entity.Blog{ID: 2, Title: "gone", RecordStatus: entity.StatusDeleted},
	)
	uc := NewBlogUsecase(repo)

	b, err := uc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "live", b.Title)

	for _, id := range []uint{0, 2, 3} {
		_, err := uc.Get(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrBlogNotFound, "id %d", id)
	}
}

// TestBlogUsecase_Update は空の項目が保存済みの値を維持することを検証します。
func TestBlogUsecase_Update(t *testing.T) {
	repo := newMockRepo(&entity.Blog{ID: 1, Title: "old title", Content: "old content", RecordStatus: entity.StatusLatest})
	uc := NewBlogUsecase(repo)

	b, err := uc.Update(context.Background(), 1, "new title", "")
	require.NoError(t, err)
	assert.Equal(t, "new title", b.Title)
	assert.Equal(t, "old content", b.Content)
	assert.Equal(t, "new title", repo.rows[1].Title)

	_, err = uc.Update(context.Background(), 99, "x", "y")
	assert.ErrorIs(t, err, domain.ErrBlogNotFound)

	repo.updateErr = errors.New("boom")
	_, err = uc.Update(context.Background(), 1, "x", "y")
	assert.Equal(t, apperr.KindInternal, apperr.As(err).Kind)
}

// TestBlogUsecase_Delete は削除が論理削除であり、二重削除が未検出になることを検証します。
func TestBlogUsecase_Delete(t *testing.T) {
	repo := newMockRepo(&entity.Blog{ID: 1, Title: "t", RecordStatus: entity.StatusLatest})
	uc := NewBlogUsecase(repo)

	require.NoError(t, uc.Delete(context.Background(), 1))
	assert.Equal(t, entity.StatusDeleted, repo.rows[1].RecordStatus)

	assert.ErrorIs(t, uc.Delete(context.Background(), 1), domain.ErrBlogNotFound)
}

// TestBlogUsecase_Lists は一覧から削除済みの記事が除外され、空でもnilではないスライスを返すことを検証します。
func TestBlogUsecase_Lists(t *testing.T) {
	repo := newMockRepo(
		&entity.Blog{ID: 1, AuthorID: 1, RecordStatus: entity.StatusLatest},
		&entity.Blog{ID: 2, AuthorID: 2, RecordStatus: entity.StatusLatest},
		&entity.Blog{ID: 3, AuthorID: 1, RecordStatus: entity.StatusDeleted},
	)
	uc := NewBlogUsecase(repo)

	all, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := uc.ListMine(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := uc.ListMine(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	repo.listErr = errors.New("db down")
	_, err = uc.List(context.Background())
	assert.Equal(t, apperr.KindInternal, apperr.As(err).Kind)
}
