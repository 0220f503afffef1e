package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = "b1"
	}
	return args.Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Book)
	return b, args.Error(1)
}

func (m *mockRepo) LockByID(ctx context.Context, id string) (*Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Book)
	return b, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, p ListParams) ([]*Book, int64, error) {
	args := m.Called(ctx, p)
	books, _ := args.Get(0).([]*Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) UpdateRating(ctx context.Context, id string, avg float64, count int) error {
	return m.Called(ctx, id, avg, count).Error(0)
}

func newService(repo Repository) *service {
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores with zero aggregates", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*book.Book")).Return(nil)

		b, err := newService(repo).CreateBook(ctx, CreateInput{
			Title: "  Dune ", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965,
		}, "u1")

		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, "u1", b.CreatedBy)
		assert.Zero(t, b.AverageRating)
		assert.Zero(t, b.ReviewCount)
		repo.AssertExpectations(t)
	})

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"blank title", CreateInput{Title: "  ", Author: "A"}, ErrTitleRequired},
		{"missing author", CreateInput{Title: "T"}, ErrAuthorRequired},
		{"negative year", CreateInput{Title: "T", Author: "A", Year: -1}, ErrInvalidYear},
		{"far future year", CreateInput{Title: "T", Author: "A", Year: 2026}, ErrInvalidYear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockRepo)
			_, err := newService(repo).CreateBook(ctx, tc.in, "u1")
			assert.ErrorIs(t, err, tc.want)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("next year is allowed", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		_, err := newService(repo).CreateBook(ctx, CreateInput{Title: "T", Author: "A", Year: 2025}, "u1")
		assert.NoError(t, err)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	existing := func() *Book {
		return &Book{ID: "b1", Title: "Old", Author: "A", CreatedBy: "owner", AverageRating: 4.5, ReviewCount: 2}
	}

	t.Run("owner updates selected fields", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", ctx, "b1").Return(existing(), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		title := "New"
		b, err := newService(repo).UpdateBook(ctx, "b1", "owner", UpdateFields{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "New", b.Title)
		assert.Equal(t, "A", b.Author)
		assert.Equal(t, 4.5, b.AverageRating)
		assert.Equal(t, 2, b.ReviewCount)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", ctx, "b1").Return(existing(), nil)

		_, err := newService(repo).UpdateBook(ctx, "b1", "intruder", UpdateFields{})
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("clearing the author is rejected", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", ctx, "b1").Return(existing(), nil)

		empty := ""
		_, err := newService(repo).UpdateBook(ctx, "b1", "owner", UpdateFields{Author: &empty})
		assert.ErrorIs(t, err, ErrAuthorRequired)
	})

	t.Run("missing book", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", ctx, "nope").Return(nil, ErrBookNotFound)

		_, err := newService(repo).UpdateBook(ctx, "nope", "owner", UpdateFields{})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	owned := &Book{ID: "b1", CreatedBy: "owner"}

	repo := new(mockRepo)
	repo.On("FindByID", ctx, "b1").Return(owned, nil)
	repo.On("Delete", ctx, "b1").Return(nil).Once()
	svc := newService(repo)

	assert.ErrorIs(t, svc.DeleteBook(ctx, "b1", "someone"), ErrForbidden)
	assert.NoError(t, svc.DeleteBook(ctx, "b1", "owner"))
	repo.AssertExpectations(t)
}

func TestListBooksNormalizesSort(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("List", ctx, ListParams{Page: 1, PageSize: 5, SortBy: SortTitle}).Return([]*Book{}, int64(0), nil)

	_, _, err := newService(repo).ListBooks(ctx, ListParams{Page: 1, PageSize: 5, SortBy: "price"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListParams(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1, PageSize: 5}.Offset())
	assert.Equal(t, 10, ListParams{Page: 3, PageSize: 5}.Offset())
	assert.Equal(t, "", ListParams{Genre: "All"}.GenreFilter())
	assert.Equal(t, "Fantasy", ListParams{Genre: " Fantasy "}.GenreFilter())
	assert.Equal(t, SortRating, NormalizeSort("rating"))
	assert.Equal(t, SortTitle, NormalizeSort(""))
}

func TestIsOwnedBy(t *testing.T) {
	b := &Book{CreatedBy: "u1"}
	assert.True(t, b.IsOwnedBy("u1"))
	assert.False(t, b.IsOwnedBy("u2"))
	assert.False(t, (&Book{}).IsOwnedBy(""))
}
