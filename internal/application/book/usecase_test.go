package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/tx"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
	"github.com/SuwethaV/bookreview/pkg/metrics"
)

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	versions    map[string]int64
	gets        int
	invalidated []string

	// runs after Version, before the store is read
	afterVersion func()
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, versions: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[id]
	return b, ok
}

func (c *memCache) Version(_ context.Context, id string) (int64, bool) {
	c.mu.Lock()
	v := c.versions[id]
	hook := c.afterVersion
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return v, true
}

func (c *memCache) Set(_ context.Context, id string, version int64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[id] != version {
		return
	}
	c.data[id] = data
}

func (c *memCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[id]++
	delete(c.data, id)
	c.invalidated = append(c.invalidated, id)
}

type recorder struct {
	keys     []string
	payloads []interface{}
}

func (r *recorder) Publish(_ context.Context, key string, payload interface{}) error {
	r.keys = append(r.keys, key)
	r.payloads = append(r.payloads, payload)
	return nil
}

type fixture struct {
	books   book.Service
	reviews review.Service
	tx      tx.Manager
	cache   *memCache
	events  *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormdb.Open(sqlite.Open(fmt.Sprintf("file:app_%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	books := book.NewService(gormdb.NewBookRepository(db))
	txm := gormdb.NewTxManager(db)
	return &fixture{
		books:   books,
		reviews: review.NewService(gormdb.NewReviewRepository(db), books, txm),
		tx:      txm,
		cache:   newMemCache(),
		events:  &recorder{},
	}
}

func (f *fixture) create(t *testing.T, owner, title, author, genre string, year int) *BookDTO {
	t.Helper()
	dto, err := NewCreateBookUseCase(f.books, f.events).Execute(context.Background(), CreateBookRequest{
		UserID: owner, Title: title, Author: author, Genre: genre, Year: year,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateBook(t *testing.T) {
	f := newFixture(t)
	before := testutil.ToFloat64(metrics.BooksCreatedTotal)

	dto := f.create(t, "u1", "  Dune ", "Frank Herbert", "Sci-Fi", 1965)

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "Dune", dto.Title)
	assert.Equal(t, "u1", dto.CreatedBy)
	assert.Zero(t, dto.AverageRating)
	assert.Zero(t, dto.ReviewCount)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BooksCreatedTotal))
	assert.Equal(t, []string{"book.created"}, f.events.keys)

	_, err := NewCreateBookUseCase(f.books, f.events).Execute(context.Background(), CreateBookRequest{UserID: "u1", Author: "x"})
	assert.ErrorIs(t, err, book.ErrTitleRequired)
}

func TestListBooks_DefaultsAndFilters(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.create(t, "u1", fmt.Sprintf("Book %d", i), "Anon", "Drama", 2000+i)
	}
	f.create(t, "u2", "Dune", "Frank Herbert", "Sci-Fi", 1965)

	uc := NewListBooksUseCase(f.books)

	resp, err := uc.Execute(context.Background(), ListBooksRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
	assert.Len(t, resp.Books, 5)
	assert.EqualValues(t, 8, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)

	resp, err = uc.Execute(context.Background(), ListBooksRequest{PageSize: 500, Genre: "Sci-Fi"})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.PageSize)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Dune", resp.Books[0].Title)

	resp, err = uc.Execute(context.Background(), ListBooksRequest{Keyword: "herb", Genre: "All"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)

	resp, err = uc.Execute(context.Background(), ListBooksRequest{SortBy: "year", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, "Book 6", resp.Books[0].Title)

	resp, err = uc.Execute(context.Background(), ListBooksRequest{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, resp.Books)
}

func TestGetBook_CacheAside(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.create(t, "u1", "Dune", "Frank Herbert", "Sci-Fi", 1965)
	_, _, err := f.reviews.AddReview(ctx, review.AddInput{BookID: dto.ID, UserID: "u2", UserName: "Bob", Rating: 4, Comment: "good"})
	require.NoError(t, err)

	uc := NewGetBookUseCase(f.books, f.reviews, f.cache)

	detail, err := uc.Execute(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Book.Title)
	assert.Equal(t, 1, detail.Book.ReviewCount)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "Bob", detail.Reviews[0].UserName)

	// populated
	cached, ok := f.cache.data[dto.ID]
	require.True(t, ok)
	var decoded BookDetail
	require.NoError(t, json.Unmarshal(cached, &decoded))
	assert.Equal(t, dto.ID, decoded.Book.ID)

	// served from cache even if the store changes underneath
	f.cache.data[dto.ID] = []byte(`{"book":{"id":"` + dto.ID + `","title":"From Cache"},"reviews":[]}`)
	detail, err = uc.Execute(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "From Cache", detail.Book.Title)

	// garbage payload falls back to the store
	f.cache.data[dto.ID] = []byte("{not json")
	detail, err = uc.Execute(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Book.Title)

	_, err = uc.Execute(ctx, "missing")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestGetBook_ConcurrentReviewKeepsStaleDetailOutOfCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.create(t, "u1", "Dune", "Frank Herbert", "Sci-Fi", 1965)
	uc := NewGetBookUseCase(f.books, f.reviews, f.cache)

	// a review is counted and invalidated after the reader took its version
	f.cache.afterVersion = func() {
		f.cache.afterVersion = nil
		f.cache.Invalidate(ctx, dto.ID)
	}
	_, err := uc.Execute(ctx, dto.ID)
	require.NoError(t, err)
	_, cached := f.cache.data[dto.ID]
	assert.False(t, cached)

	// the next read fills normally
	_, err = uc.Execute(ctx, dto.ID)
	require.NoError(t, err)
	_, cached = f.cache.data[dto.ID]
	assert.True(t, cached)
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.create(t, "u1", "Dune", "Frank Herbert", "Sci-Fi", 1965)
	f.cache.data[dto.ID] = []byte("{}")

	uc := NewUpdateBookUseCase(f.books, f.cache, f.events)
	title := "Dune Messiah"

	_, err := uc.Execute(ctx, UpdateBookRequest{ID: dto.ID, UserID: "intruder", Title: &title})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeForbidden))

	updated, err := uc.Execute(ctx, UpdateBookRequest{ID: dto.ID, UserID: "u1", Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.Equal(t, []string{dto.ID}, f.cache.invalidated)
	assert.Contains(t, f.events.keys, "book.updated")

	empty := " "
	_, err = uc.Execute(ctx, UpdateBookRequest{ID: dto.ID, UserID: "u1", Author: &empty})
	assert.ErrorIs(t, err, book.ErrAuthorRequired)
}

func TestDeleteBook_CascadesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.create(t, "u1", "Dune", "Frank Herbert", "Sci-Fi", 1965)
	for _, r := range []int{5, 3} {
		_, _, err := f.reviews.AddReview(ctx, review.AddInput{BookID: dto.ID, UserID: "u2", UserName: "Bob", Rating: r, Comment: "ok"})
		require.NoError(t, err)
	}
	uc := NewDeleteBookUseCase(f.books, f.reviews, f.tx, f.cache, f.events)

	err := uc.Execute(ctx, dto.ID, "u2")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeForbidden))

	before := testutil.ToFloat64(metrics.BooksDeletedTotal)
	require.NoError(t, uc.Execute(ctx, dto.ID, "u1"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BooksDeletedTotal))

	_, err = f.books.GetBook(ctx, dto.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	left, err := f.reviews.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.Contains(t, f.cache.invalidated, dto.ID)
	assert.Equal(t, "book.deleted", f.events.keys[len(f.events.keys)-1])

	err = uc.Execute(ctx, dto.ID, "u1")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestNoopCache(t *testing.T) {
	var c BookCache = NoopCache{}
	_, fill := c.Version(context.Background(), "b1")
	assert.False(t, fill)
	c.Set(context.Background(), "b1", 0, []byte("x"))
	_, ok := c.Get(context.Background(), "b1")
	assert.False(t, ok)
}
