package gormdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedBooks(t *testing.T, repo book.Repository) map[string]*book.Book {
	t.Helper()
	ctx := context.Background()
	out := map[string]*book.Book{}
	for _, b := range []*book.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965, CreatedBy: "u1", AverageRating: 4.8},
		{Title: "Emma", Author: "Jane Austen", Genre: "Classic", Year: 1815, CreatedBy: "u2", AverageRating: 3.9},
		{Title: "Neuromancer", Author: "William Gibson", Genre: "Sci-Fi", Year: 1984, CreatedBy: "u1", AverageRating: 4.1},
		{Title: "100% Pure", Author: "Percy Cent", Genre: "Humor", Year: 2001, CreatedBy: "u2"},
	} {
		require.NoError(t, repo.Create(ctx, b))
		require.NotEmpty(t, b.ID)
		out[b.Title] = b
	}
	return out
}

func titles(books []*book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	books := seedBooks(t, repo)
	dune := books["Dune"]

	got, err := repo.FindByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, 1965, got.Year)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// aggregates survive a client update
	got.Title = "Dune Messiah"
	got.AverageRating = 1
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.FindByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, 4.8, got.AverageRating)

	require.NoError(t, repo.UpdateRating(ctx, dune.ID, 3.5, 2))
	got, err = repo.LockByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.AverageRating)
	assert.Equal(t, 2, got.ReviewCount)

	require.NoError(t, repo.Delete(ctx, dune.ID))
	_, err = repo.FindByID(ctx, dune.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, dune.ID), book.ErrBookNotFound)
}

func TestBookRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo)

	cases := []struct {
		name   string
		params book.ListParams
		want   []string
		total  int64
	}{
		{"default title sort", book.ListParams{}, []string{"100% Pure", "Dune", "Emma", "Neuromancer"}, 4},
		{"keyword on author, case-insensitive", book.ListParams{Keyword: "AUSTEN"}, []string{"Emma"}, 1},
		{"keyword on title", book.ListParams{Keyword: "mancer"}, []string{"Neuromancer"}, 1},
		{"percent is literal", book.ListParams{Keyword: "100%"}, []string{"100% Pure"}, 1},
		{"genre", book.ListParams{Genre: "Sci-Fi", SortBy: book.SortYear}, []string{"Neuromancer", "Dune"}, 2},
		{"All genre is no filter", book.ListParams{Genre: "All", SortBy: book.SortRating}, []string{"Dune", "Neuromancer", "Emma", "100% Pure"}, 4},
		{"author sort", book.ListParams{SortBy: book.SortAuthor}, []string{"Dune", "Emma", "100% Pure", "Neuromancer"}, 4},
		{"owner", book.ListParams{CreatedBy: "u2"}, []string{"100% Pure", "Emma"}, 2},
		{"paged", book.ListParams{Page: 2, PageSize: 3}, []string{"Neuromancer"}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, total, err := repo.List(ctx, tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(got))
			assert.Equal(t, tc.total, total)
		})
	}
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewReviewRepository(db)

	for i, rating := range []int{5, 4, 4} {
		rv := &review.Review{BookID: "b1", UserID: "u1", UserName: "Ann", Rating: rating, Comment: fmt.Sprint("c", i)}
		require.NoError(t, repo.Create(ctx, rv))
		require.NotEmpty(t, rv.ID)
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, repo.Create(ctx, &review.Review{BookID: "b2", UserID: "u2", Rating: 1, Comment: "no"}))

	list, err := repo.ListByBook(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c2", list[0].Comment)

	mine, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	sum, err := repo.SummaryForBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.InDelta(t, 13.0/3.0, sum.Average, 1e-9)

	empty, err := repo.SummaryForBook(ctx, "none")
	require.NoError(t, err)
	assert.Equal(t, review.RatingSummary{}, empty)

	n, err := repo.DeleteByBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	sum, err = repo.SummaryForBook(ctx, "b1")
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := &user.User{Name: "Ann", Email: "ann@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	err := repo.Create(ctx, &user.User{Name: "Other", Email: "ann@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	got, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got.Name, got.Avatar = "Annie", "a.png"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

// The full add-review path against SQL: concurrent writers must leave the
// aggregate equal to the recompute over every stored review.
func TestAddReview_ConcurrentAggregate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	bookRepo := NewBookRepository(db)
	books := book.NewService(bookRepo)
	svc := review.NewService(NewReviewRepository(db), books, NewTxManager(db))

	b, err := books.CreateBook(ctx, book.CreateInput{Title: "Dune", Author: "Frank Herbert"}, "u1")
	require.NoError(t, err)

	ratings := []int{5, 4, 4, 3, 5, 2, 5, 4}
	var wg sync.WaitGroup
	for _, r := range ratings {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			_, _, err := svc.AddReview(ctx, review.AddInput{BookID: b.ID, UserID: "u2", UserName: "Bob", Rating: r, Comment: "ok"})
			assert.NoError(t, err)
		}(r)
	}
	wg.Wait()

	got, err := bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, len(ratings), got.ReviewCount)
	assert.Equal(t, 4.0, got.AverageRating) // 32/8

	_, _, err = svc.AddReview(ctx, review.AddInput{BookID: "ghost", Rating: 3, Comment: "x"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestTxManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	txm := NewTxManager(db)

	err := txm.Transaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, &review.Review{BookID: "b1", Rating: 3, Comment: "x"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	sum, err := repo.SummaryForBook(ctx, "b1")
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
}
