package book

import (
	"context"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/pkg/response"
)

const (
	defaultPageSize = 5
	maxPageSize     = 50
)

// ListBooksUseCase pages through the catalog with search, genre filter and sort.
type ListBooksUseCase struct {
	bookService book.Service
}

func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

type ListBooksRequest struct {
	Page     int    // 1-based
	PageSize int    // default 5, max 50
	Keyword  string // title or author substring
	Genre    string // "" or "All" for every genre
	SortBy   string // title | author | year | rating | newest
}

type ListBooksResponse struct {
	Books      []BookDTO `json:"books"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. defaults and limits
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	// 2. query
	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Genre:    req.Genre,
		SortBy:   book.NormalizeSort(req.SortBy),
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		Books:      NewBookDTOs(books),
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: response.TotalPages(total, req.PageSize),
	}, nil
}
