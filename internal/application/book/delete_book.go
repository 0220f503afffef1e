package book

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/application/event"
	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/tx"
	"github.com/SuwethaV/bookreview/pkg/metrics"
)

// DeleteBookUseCase removes a book and every review of it. Owner only.
type DeleteBookUseCase struct {
	bookService   book.Service
	reviewService review.Service
	txManager     tx.Manager
	cache         BookCache
	events        event.Publisher
}

func NewDeleteBookUseCase(
	bookService book.Service,
	reviewService review.Service,
	txManager tx.Manager,
	cache BookCache,
	events event.Publisher,
) *DeleteBookUseCase {
	if txManager == nil {
		txManager = tx.None
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &DeleteBookUseCase{
		bookService:   bookService,
		reviewService: reviewService,
		txManager:     txManager,
		cache:         cache,
		events:        events,
	}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id, userID string) error {
	// 1. book and its reviews go together
	var removed int64
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookService.DeleteBook(txCtx, id, userID); err != nil {
			return err
		}
		n, err := uc.reviewService.DeleteByBook(txCtx, id)
		removed = n
		return err
	})
	if err != nil {
		return err
	}

	// 2. side effects
	uc.cache.Invalidate(ctx, id)
	metrics.IncCounter(metrics.BooksDeletedTotal)
	event.Emit(ctx, uc.events, event.BookDeleted, event.BookEvent{
		BookID:     id,
		OwnerID:    userID,
		OccurredAt: time.Now(),
	})

	logrus.WithFields(logrus.Fields{
		"book_id":         id,
		"user_id":         userID,
		"reviews_removed": removed,
	}).Info("book deleted")
	return nil
}
