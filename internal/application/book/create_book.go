package book

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/application/event"
	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/pkg/metrics"
)

// CreateBookUseCase adds a book to the catalog on behalf of a user.
type CreateBookUseCase struct {
	bookService book.Service
	events      event.Publisher
}

func NewCreateBookUseCase(bookService book.Service, events event.Publisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		events:      events,
	}
}

// CreateBookRequest carries the client-writable fields. UserID comes from the token.
type CreateBookRequest struct {
	UserID      string
	Title       string
	Author      string
	Description string
	CoverImage  string
	Genre       string
	Year        int
}

func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookDTO, error) {
	// 1. domain validation and persist
	b, err := uc.bookService.CreateBook(ctx, book.CreateInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
		Year:        req.Year,
	}, req.UserID)
	if err != nil {
		return nil, err
	}

	// 2. side effects
	metrics.IncCounter(metrics.BooksCreatedTotal)
	event.Emit(ctx, uc.events, event.BookCreated, event.BookEvent{
		BookID:     b.ID,
		Title:      b.Title,
		OwnerID:    b.CreatedBy,
		OccurredAt: time.Now(),
	})

	logrus.WithFields(logrus.Fields{
		"book_id": b.ID,
		"user_id": req.UserID,
	}).Info("book created")

	dto := NewBookDTO(b)
	return &dto, nil
}
