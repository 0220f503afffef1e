package review

import (
	"context"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/tx"
)

// Service owns the review write path and the aggregate recompute.
type Service interface {
	// AddReview stores the review and rewrites the book's aggregates
	// from the full set of its reviews. Returns the stored review and
	// the summary that was written.
	AddReview(ctx context.Context, in AddInput) (*Review, RatingSummary, error)

	ListByBook(ctx context.Context, bookID string) ([]*Review, error)
	ListByUser(ctx context.Context, userID string) ([]*Review, error)

	// DeleteByBook removes every review of a book.
	DeleteByBook(ctx context.Context, bookID string) (int64, error)
}

type service struct {
	repo  Repository
	books book.Service
	tx    tx.Manager
}

// NewService creates the review service.
func NewService(repo Repository, books book.Service, txManager tx.Manager) Service {
	if txManager == nil {
		txManager = tx.None
	}
	return &service{repo: repo, books: books, tx: txManager}
}

func (s *service) AddReview(ctx context.Context, in AddInput) (*Review, RatingSummary, error) {
	// 1. validate before touching the store
	review := NewReview(in)
	if err := review.Validate(); err != nil {
		return nil, RatingSummary{}, err
	}

	var summary RatingSummary
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 2. the book must exist; the row lock serializes concurrent reviews
		if _, err := s.books.GetBookForUpdate(txCtx, in.BookID); err != nil {
			return err
		}

		// 3. persist
		if err := s.repo.Create(txCtx, review); err != nil {
			return err
		}

		// 4. recompute over all reviews, never incrementally
		raw, err := s.repo.SummaryForBook(txCtx, in.BookID)
		if err != nil {
			return err
		}
		summary = RatingSummary{Average: RoundRating(raw.Average), Count: raw.Count}

		return s.books.ApplyRatingSummary(txCtx, in.BookID, summary.Average, summary.Count)
	})
	if err != nil {
		return nil, RatingSummary{}, err
	}

	return review, summary, nil
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]*Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	return s.repo.DeleteByBook(ctx, bookID)
}
