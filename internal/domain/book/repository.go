package book

import (
	"context"
	"strings"
)

// Repository is the book store port. Implementations return ErrBookNotFound
// for missing rows and for ids that are malformed for the backend.
type Repository interface {
	Create(ctx context.Context, book *Book) error

	FindByID(ctx context.Context, id string) (*Book, error)

	// LockByID loads the book for a read-modify-write cycle.
	// SQL backends issue SELECT ... FOR UPDATE inside the ctx transaction.
	LockByID(ctx context.Context, id string) (*Book, error)

	Update(ctx context.Context, book *Book) error

	Delete(ctx context.Context, id string) error

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateRating writes only the aggregate fields.
	UpdateRating(ctx context.Context, id string, average float64, count int) error
}

// Sort keys accepted by ListParams.SortBy.
const (
	SortTitle  = "title"
	SortAuthor = "author"
	SortYear   = "year"
	SortRating = "rating"
	SortNewest = "newest"
)

// AllGenres is the client's "no genre filter" value.
const AllGenres = "All"

// ListParams filters and pages the catalog.
type ListParams struct {
	Page      int    // 1-based
	PageSize  int    // <= 0 returns every match
	Keyword   string // case-insensitive substring of title or author
	Genre     string // exact match; "" or "All" disables the filter
	SortBy    string
	CreatedBy string // owner filter, used by the profile page
}

// Offset is the number of rows to skip.
func (p ListParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// GenreFilter returns the genre to match, or "" for none.
func (p ListParams) GenreFilter() string {
	g := strings.TrimSpace(p.Genre)
	if g == AllGenres {
		return ""
	}
	return g
}

// KeywordFilter returns the trimmed keyword.
func (p ListParams) KeywordFilter() string {
	return strings.TrimSpace(p.Keyword)
}

// NormalizeSort maps unknown sort keys to SortTitle.
func NormalizeSort(sortBy string) string {
	switch sortBy {
	case SortTitle, SortAuthor, SortYear, SortRating, SortNewest:
		return sortBy
	default:
		return SortTitle
	}
}
