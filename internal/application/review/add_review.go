package review

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	bookapp "github.com/SuwethaV/bookreview/internal/application/book"
	"github.com/SuwethaV/bookreview/internal/application/event"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/pkg/metrics"
	"github.com/SuwethaV/bookreview/pkg/tracing"
)

// AddReviewUseCase stores a review and refreshes the book's aggregate rating.
type AddReviewUseCase struct {
	reviewService review.Service
	userService   user.Service
	cache         bookapp.BookCache
	events        event.Publisher
}

func NewAddReviewUseCase(
	reviewService review.Service,
	userService user.Service,
	cache bookapp.BookCache,
	events event.Publisher,
) *AddReviewUseCase {
	if cache == nil {
		cache = bookapp.NoopCache{}
	}
	return &AddReviewUseCase{
		reviewService: reviewService,
		userService:   userService,
		cache:         cache,
		events:        events,
	}
}

type AddReviewRequest struct {
	BookID  string
	UserID  string
	Rating  int
	Comment string
}

// BookRating is the book's aggregate after the review was counted.
type BookRating struct {
	ID            string  `json:"id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type AddReviewResponse struct {
	Review bookapp.ReviewDTO `json:"review"`
	Book   BookRating        `json:"book"`
}

func (uc *AddReviewUseCase) Execute(ctx context.Context, req AddReviewRequest) (*AddReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "review.add")
	defer span.End()
	span.SetAttributes(
		attribute.String("book.id", req.BookID),
		attribute.Int("review.rating", req.Rating),
	)

	// 1. snapshot the author's display name
	author, err := uc.userService.GetByID(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load author")
		return nil, err
	}

	// 2. validate, persist and recompute the aggregate
	rv, summary, err := uc.reviewService.AddReview(ctx, review.AddInput{
		BookID:   req.BookID,
		UserID:   author.ID,
		UserName: author.Name,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add review")
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("book.average_rating", summary.Average),
		attribute.Int("book.review_count", summary.Count),
	)

	// 3. the cached detail no longer matches
	uc.cache.Invalidate(ctx, req.BookID)

	metrics.IncCounter(metrics.ReviewsCreatedTotal)
	metrics.ObserveHistogram(metrics.ReviewRating, float64(rv.Rating))
	event.Emit(ctx, uc.events, event.ReviewCreated, event.ReviewEvent{
		ReviewID:      rv.ID,
		BookID:        rv.BookID,
		UserID:        rv.UserID,
		Rating:        rv.Rating,
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
		OccurredAt:    time.Now(),
	})

	logrus.WithFields(logrus.Fields{
		"book_id":        rv.BookID,
		"user_id":        rv.UserID,
		"rating":         rv.Rating,
		"average_rating": summary.Average,
		"review_count":   summary.Count,
		"trace_id":       tracing.ExtractTraceID(ctx),
	}).Info("review added")

	return &AddReviewResponse{
		Review: bookapp.NewReviewDTO(rv),
		Book: BookRating{
			ID:            rv.BookID,
			AverageRating: summary.Average,
			ReviewCount:   summary.Count,
		},
	}, nil
}
