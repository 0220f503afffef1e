package book

import (
	"context"
	"time"

	"github.com/SuwethaV/bookreview/internal/application/event"
	"github.com/SuwethaV/bookreview/internal/domain/book"
)

// UpdateBookUseCase edits a book's descriptive fields. Owner only.
type UpdateBookUseCase struct {
	bookService book.Service
	cache       BookCache
	events      event.Publisher
}

func NewUpdateBookUseCase(bookService book.Service, cache BookCache, events event.Publisher) *UpdateBookUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
		events:      events,
	}
}

// UpdateBookRequest is a partial update; nil fields are unchanged.
type UpdateBookRequest struct {
	ID          string
	UserID      string
	Title       *string
	Author      *string
	Description *string
	CoverImage  *string
	Genre       *string
	Year        *int
}

func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookDTO, error) {
	// 1. ownership and validation live in the domain service
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.UserID, book.UpdateFields{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
		Year:        req.Year,
	})
	if err != nil {
		return nil, err
	}

	// 2. drop the stale detail
	uc.cache.Invalidate(ctx, req.ID)

	event.Emit(ctx, uc.events, event.BookUpdated, event.BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		OwnerID:    b.CreatedBy,
		OccurredAt: time.Now(),
	})

	dto := NewBookDTO(b)
	return &dto, nil
}
