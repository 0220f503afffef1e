package book

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
)

// GetBookUseCase loads a book with its reviews, cache-aside.
type GetBookUseCase struct {
	bookService   book.Service
	reviewService review.Service
	cache         BookCache
}

func NewGetBookUseCase(bookService book.Service, reviewService review.Service, cache BookCache) *GetBookUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &GetBookUseCase{
		bookService:   bookService,
		reviewService: reviewService,
		cache:         cache,
	}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookDetail, error) {
	// 1. cache
	if data, ok := uc.cache.Get(ctx, id); ok {
		var detail BookDetail
		if err := json.Unmarshal(data, &detail); err == nil {
			return &detail, nil
		}
		// a payload we cannot read is treated as a miss
		uc.cache.Invalidate(ctx, id)
	}

	// 2. store; the version is read first so a write landing meanwhile
	// keeps this detail out of the cache
	version, fill := uc.cache.Version(ctx, id)
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviewService.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{
		Book:    NewBookDTO(b),
		Reviews: NewReviewDTOs(reviews),
	}

	// 3. fill cache
	if !fill {
		return detail, nil
	}
	if data, err := json.Marshal(detail); err == nil {
		uc.cache.Set(ctx, id, version, data)
	} else {
		logrus.WithError(err).WithField("book_id", id).Warn("failed to encode book detail for cache")
	}

	return detail, nil
}
