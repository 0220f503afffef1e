package review

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
	"github.com/SuwethaV/bookreview/pkg/metrics"
)

type spyCache struct{ invalidated []string }

func (c *spyCache) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

func (c *spyCache) Version(context.Context, string) (int64, bool) {
	return 0, false
}

func (c *spyCache) Set(context.Context, string, int64, []byte) {}

func (c *spyCache) Invalidate(_ context.Context, id string) {
	c.invalidated = append(c.invalidated, id)
}

type recorder struct{ keys []string }

func (r *recorder) Publish(_ context.Context, key string, _ interface{}) error {
	r.keys = append(r.keys, key)
	return nil
}

type fixture struct {
	uc     *AddReviewUseCase
	books  book.Service
	users  user.Service
	cache  *spyCache
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormdb.Open(sqlite.Open(fmt.Sprintf("file:rv_%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	books := book.NewService(gormdb.NewBookRepository(db))
	users := user.NewServiceWithCost(gormdb.NewUserRepository(db), bcrypt.MinCost)
	reviews := review.NewService(gormdb.NewReviewRepository(db), books, gormdb.NewTxManager(db))

	f := &fixture{books: books, users: users, cache: &spyCache{}, events: &recorder{}}
	f.uc = NewAddReviewUseCase(reviews, users, f.cache, f.events)
	return f
}

func TestAddReview_UpdatesAggregate(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.users.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	b, err := f.books.CreateBook(ctx, book.CreateInput{Title: "Dune", Author: "Frank Herbert"}, "owner")
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.ReviewsCreatedTotal)

	resp, err := f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: alice.ID, Rating: 5, Comment: " Loved it "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Review.UserName)
	assert.Equal(t, "Loved it", resp.Review.Comment)
	assert.Equal(t, 5.0, resp.Book.AverageRating)
	assert.Equal(t, 1, resp.Book.ReviewCount)

	resp, err = f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: alice.ID, Rating: 4, Comment: "Second read"})
	require.NoError(t, err)
	assert.Equal(t, 4.5, resp.Book.AverageRating)
	assert.Equal(t, 2, resp.Book.ReviewCount)

	resp, err = f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: alice.ID, Rating: 4, Comment: "Third"})
	require.NoError(t, err)
	assert.Equal(t, 4.3, resp.Book.AverageRating) // 13/3
	assert.Equal(t, 3, resp.Book.ReviewCount)

	stored, err := f.books.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stored.AverageRating)
	assert.Equal(t, 3, stored.ReviewCount)

	assert.Equal(t, before+3, testutil.ToFloat64(metrics.ReviewsCreatedTotal))
	assert.Equal(t, []string{b.ID, b.ID, b.ID}, f.cache.invalidated)
	assert.Equal(t, []string{"review.created", "review.created", "review.created"}, f.events.keys)

	spans := rec.Ended()
	require.NotEmpty(t, spans)
	assert.Equal(t, "review.add", spans[len(spans)-1].Name())
}

func TestAddReview_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.users.Register(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	b, err := f.books.CreateBook(ctx, book.CreateInput{Title: "Dune", Author: "Frank Herbert"}, "owner")
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: alice.ID, Rating: 6, Comment: "x"})
	assert.ErrorIs(t, err, review.ErrInvalidRating)

	_, err = f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: alice.ID, Rating: 3, Comment: "   "})
	assert.ErrorIs(t, err, review.ErrEmptyComment)

	_, err = f.uc.Execute(ctx, AddReviewRequest{BookID: "missing", UserID: alice.ID, Rating: 3, Comment: "x"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = f.uc.Execute(ctx, AddReviewRequest{BookID: b.ID, UserID: "ghost", Rating: 3, Comment: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUserNotFound))

	stored, err := f.books.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ReviewCount)
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.events.keys)
}
