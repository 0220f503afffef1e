package review

import "context"

// Repository is the review store port.
type Repository interface {
	Create(ctx context.Context, review *Review) error

	// ListByBook returns the book's reviews, newest first.
	ListByBook(ctx context.Context, bookID string) ([]*Review, error)

	// ListByUser returns the user's reviews, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Review, error)

	// SummaryForBook aggregates every stored review of the book in the store.
	// Average is unrounded.
	SummaryForBook(ctx context.Context, bookID string) (RatingSummary, error)

	DeleteByBook(ctx context.Context, bookID string) (int64, error)
}
