package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/feature/blog/domain/entity"
)

// mockBlogRepository はテスト用のBlogRepositoryモック実装です。呼び出し回数を記録します。
type mockBlogRepository struct {
	latest      []entity.Blog
	byAuthor    map[uint][]entity.Blog
	listErr     error
	writeErr    error
	listCalls   int
	authorCalls int
	// duringList は一覧の読み込み後、返却前に実行されます。
	duringList func()
}

func (m *mockBlogRepository) Create(_ context.Context, b *entity.Blog) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	b.ID = uint(len(m.latest) + 1)
	m.latest = append([]entity.Blog{*b}, m.latest...)
	return nil
}

func (m *mockBlogRepository) Update(context.Context, *entity.Blog) error { return m.writeErr }

func (m *mockBlogRepository) FindByID(_ context.Context, id uint) (*entity.Blog, error) {
	return &entity.Blog{ID: id}, nil
}

func (m *mockBlogRepository) ListLatest(context.Context) ([]entity.Blog, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := m.latest
	if hook := m.duringList; hook != nil {
		m.duringList = nil
		hook()
	}
	return out, nil
}

func (m *mockBlogRepository) ListByAuthor(_ context.Context, id uint) ([]entity.Blog, error) {
	m.authorCalls++
	return m.byAuthor[id], nil
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// TestNewCachingBlogRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingBlogRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "blogs"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "blogs"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewCachingBlogRepository(nil, tt.ttl, &mockBlogRepository{}, tt.namespace)
			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
			assert.Equal(t, tt.expectedNamespace+":latest", repo.latestKey())
		})
	}
}

// TestCachingBlogRepository_NilRedisBypasses はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingBlogRepository_NilRedisBypasses(t *testing.T) {
	t.Parallel()

	inner := &mockBlogRepository{latest: []entity.Blog{{ID: 1, Title: "a"}}}
	repo := NewCachingBlogRepository(nil, 0, inner, "")

	for i := 0; i < 3; i++ {
		out, err := repo.ListLatest(context.Background())
		require.NoError(t, err)
		assert.Len(t, out, 1)
	}
	assert.Equal(t, 3, inner.listCalls)
	require.NoError(t, repo.Create(context.Background(), &entity.Blog{Title: "b"}))
}

// TestCachingBlogRepository_ListLatest_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingBlogRepository_ListLatest_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := []entity.Blog{{ID: 7, Title: "cached"}}
	b, _ := json.Marshal(cached)
	mock.ExpectGet("blogs:latest").SetVal(string(b))

	inner := &mockBlogRepository{}
	repo := NewCachingBlogRepository(rdb, 0, inner, "")

	out, err := repo.ListLatest(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cached", out[0].Title)
	assert.Zero(t, inner.listCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_ListLatest_CacheMissStores はキャッシュミス時にDBからデータを取得し、世代を確認してキャッシュに保存することを検証します。
func TestCachingBlogRepository_ListLatest_CacheMissStores(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	rows := []entity.Blog{{ID: 1, Title: "fresh"}}
	b, _ := json.Marshal(rows)
	mock.ExpectGet("blogs:latest").RedisNil()
	mock.ExpectGet("blogs:gen").RedisNil()
	mock.ExpectEval(storeIfCurrent, []string{"blogs:gen", "blogs:latest"}, "0", string(b), int64(300000)).SetVal(int64(1))

	inner := &mockBlogRepository{latest: rows}
	repo := NewCachingBlogRepository(rdb, 0, inner, "")

	out, err := repo.ListLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, out)
	assert.Equal(t, 1, inner.listCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_CorruptedEntryIsDropped は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingBlogRepository_CorruptedEntryIsDropped(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	rows := []entity.Blog{{ID: 1}}
	b, _ := json.Marshal(rows)
	mock.ExpectGet("blogs:latest").SetVal("{not json")
	mock.ExpectDel("blogs:latest").SetVal(1)
	mock.ExpectGet("blogs:gen").SetVal("4")
	mock.ExpectEval(storeIfCurrent, []string{"blogs:gen", "blogs:latest"}, "4", string(b), int64(300000)).SetVal(int64(1))

	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{latest: rows}, "")
	out, err := repo.ListLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_InnerErrorPropagates は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingBlogRepository_InnerErrorPropagates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	mock.ExpectGet("blogs:latest").RedisNil()
	mock.ExpectGet("blogs:gen").RedisNil()

	want := errors.New("db down")
	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{listErr: want}, "")
	_, err := repo.ListLatest(context.Background())
	assert.ErrorIs(t, err, want)
}

// TestCachingBlogRepository_WriteInvalidates は書き込み後に世代が更新され、一覧キャッシュが無効化されることを検証します。
func TestCachingBlogRepository_WriteInvalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("blogs:gen").SetVal(1)
	mock.ExpectDel("blogs:latest").SetVal(1)
	mock.ExpectScan(0, "blogs:author:*", 200).SetVal([]string{"blogs:author:1", "blogs:author:2"}, 0)
	mock.ExpectDel("blogs:author:1", "blogs:author:2").SetVal(2)

	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{}, "")
	require.NoError(t, repo.Update(context.Background(), &entity.Blog{ID: 1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_FailedWriteKeepsCache は書き込み失敗時にキャッシュへ触れないことを検証します。
func TestCachingBlogRepository_FailedWriteKeepsCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	want := errors.New("constraint")
	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{writeErr: want}, "")
	assert.ErrorIs(t, repo.Create(context.Background(), &entity.Blog{}), want)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_CacheFailureDoesNotFailRequest はRedis障害時も書き込みリクエストが成功することを検証します。
func TestCachingBlogRepository_CacheFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("blogs:gen").SetErr(errors.New("connection refused"))
	mock.ExpectDel("blogs:latest").SetErr(errors.New("connection refused"))
	mock.ExpectScan(0, "blogs:author:*", 200).SetErr(errors.New("connection refused"))

	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{}, "")
	assert.NoError(t, repo.Create(context.Background(), &entity.Blog{Title: "t"}))
}

// TestCachingBlogRepository_RoundTrip はminiredisで保存・TTL・無効化の一連の流れを検証します。
func TestCachingBlogRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	mr, rdb := newMiniredis(t)
	inner := &mockBlogRepository{
		latest:   []entity.Blog{{ID: 1, Title: "one"}},
		byAuthor: map[uint][]entity.Blog{3: {{ID: 1, AuthorID: 3}}},
	}
	repo := NewCachingBlogRepository(rdb, 0, inner, "")
	ctx := context.Background()

	_, err := repo.ListLatest(ctx)
	require.NoError(t, err)
	_, err = repo.ListLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
	assert.True(t, mr.Exists("blogs:latest"))
	assert.InDelta(t, (5 * time.Minute).Seconds(), mr.TTL("blogs:latest").Seconds(), 1)

	_, err = repo.ListByAuthor(ctx, 3)
	require.NoError(t, err)
	assert.True(t, mr.Exists("blogs:author:3"))

	require.NoError(t, repo.Create(ctx, &entity.Blog{Title: "two"}))
	assert.False(t, mr.Exists("blogs:latest"))
	assert.False(t, mr.Exists("blogs:author:3"))

	out, err := repo.ListLatest(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 2, inner.listCalls)

	mr.FastForward(6 * time.Minute)
	assert.False(t, mr.Exists("blogs:latest"))
}

// TestCachingBlogRepository_GenerationReadFailureSkipsStore は世代の読み込みに失敗した場合にDBの結果を返し、キャッシュに保存しないことを検証します。
func TestCachingBlogRepository_GenerationReadFailureSkipsStore(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("blogs:latest").RedisNil()
	mock.ExpectGet("blogs:gen").SetErr(errors.New("connection refused"))

	rows := []entity.Blog{{ID: 1}}
	repo := NewCachingBlogRepository(rdb, 0, &mockBlogRepository{latest: rows}, "")
	out, err := repo.ListLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingBlogRepository_WriteDuringLoadIsNotCachedStale は読み込み中に書き込みがあった場合に古い一覧をキャッシュしないことを検証します。
func TestCachingBlogRepository_WriteDuringLoadIsNotCachedStale(t *testing.T) {
	t.Parallel()

	mr, rdb := newMiniredis(t)
	inner := &mockBlogRepository{latest: []entity.Blog{{ID: 1, Title: "one"}}}
	repo := NewCachingBlogRepository(rdb, 0, inner, "")
	ctx := context.Background()

	inner.duringList = func() {
		require.NoError(t, repo.Create(ctx, &entity.Blog{Title: "two"}))
	}
	out, err := repo.ListLatest(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.False(t, mr.Exists("blogs:latest"))

	out, err = repo.ListLatest(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.True(t, mr.Exists("blogs:latest"))
	assert.Equal(t, 2, inner.listCalls)

	out, err = repo.ListLatest(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 2, inner.listCalls)
}
