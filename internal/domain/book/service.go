package book

import (
	"context"
	"time"
)

// Service holds the catalog rules.
type Service interface {
	// CreateBook validates input and stores a book owned by ownerID.
	CreateBook(ctx context.Context, in CreateInput, ownerID string) (*Book, error)

	GetBook(ctx context.Context, id string) (*Book, error)

	// GetBookForUpdate locks the book row for the ctx transaction.
	GetBookForUpdate(ctx context.Context, id string) (*Book, error)

	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// UpdateBook applies a partial update. Only the owner may update.
	UpdateBook(ctx context.Context, id, userID string, fields UpdateFields) (*Book, error)

	// DeleteBook removes the book. Only the owner may delete.
	// Reviews are cascaded by the caller.
	DeleteBook(ctx context.Context, id, userID string) error

	// ApplyRatingSummary writes the recomputed aggregates.
	ApplyRatingSummary(ctx context.Context, id string, average float64, count int) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates the catalog service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) CreateBook(ctx context.Context, in CreateInput, ownerID string) (*Book, error) {
	book := NewBook(in, ownerID)

	if err := s.validate(book); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetBookForUpdate(ctx context.Context, id string) (*Book, error) {
	return s.repo.LockByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.SortBy = NormalizeSort(params.SortBy)
	return s.repo.List(ctx, params)
}

func (s *service) UpdateBook(ctx context.Context, id, userID string, fields UpdateFields) (*Book, error) {
	// 1. load
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. ownership
	if !book.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}

	// 3. apply and re-validate the merged state
	book.Apply(fields)
	if err := s.validate(book); err != nil {
		return nil, err
	}

	// 4. persist
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, id, userID string) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !book.IsOwnedBy(userID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ApplyRatingSummary(ctx context.Context, id string, average float64, count int) error {
	return s.repo.UpdateRating(ctx, id, average, count)
}

func (s *service) validate(b *Book) error {
	if b.Title == "" {
		return ErrTitleRequired
	}
	if b.Author == "" {
		return ErrAuthorRequired
	}
	// 0 means unknown
	if b.Year < 0 || b.Year > s.now().Year()+1 {
		return ErrInvalidYear
	}
	return nil
}
