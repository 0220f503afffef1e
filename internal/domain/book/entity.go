package book

import (
	"strings"
	"time"
)

// Book is the catalog aggregate root.
// AverageRating and ReviewCount are derived from the book's reviews and are
// only written through ApplyRating.
type Book struct {
	ID            string
	Title         string
	Author        string
	Description   string
	CoverImage    string
	Genre         string
	Year          int
	CreatedBy     string // owner user ID
	AverageRating float64
	ReviewCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateInput carries the client-writable fields of a new book.
type CreateInput struct {
	Title       string
	Author      string
	Description string
	CoverImage  string
	Genre       string
	Year        int
}

// UpdateFields is a partial update; nil fields are left untouched.
type UpdateFields struct {
	Title       *string
	Author      *string
	Description *string
	CoverImage  *string
	Genre       *string
	Year        *int
}

// NewBook creates a book with zero aggregates.
func NewBook(in CreateInput, ownerID string) *Book {
	now := time.Now()
	return &Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		CoverImage:  in.CoverImage,
		Genre:       strings.TrimSpace(in.Genre),
		Year:        in.Year,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies the non-nil fields onto the book.
func (b *Book) Apply(f UpdateFields) {
	if f.Title != nil {
		b.Title = strings.TrimSpace(*f.Title)
	}
	if f.Author != nil {
		b.Author = strings.TrimSpace(*f.Author)
	}
	if f.Description != nil {
		b.Description = *f.Description
	}
	if f.CoverImage != nil {
		b.CoverImage = *f.CoverImage
	}
	if f.Genre != nil {
		b.Genre = strings.TrimSpace(*f.Genre)
	}
	if f.Year != nil {
		b.Year = *f.Year
	}
	b.UpdatedAt = time.Now()
}

// ApplyRating overwrites the derived aggregate fields.
func (b *Book) ApplyRating(average float64, count int) {
	b.AverageRating = average
	b.ReviewCount = count
	b.UpdatedAt = time.Now()
}

// IsOwnedBy reports whether userID added the book.
func (b *Book) IsOwnedBy(userID string) bool {
	return userID != "" && b.CreatedBy == userID
}
