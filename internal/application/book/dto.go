package book

import (
	"time"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
)

// BookDTO is the wire shape of a book.
type BookDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"cover_image"`
	Genre         string    `json:"genre"`
	Year          int       `json:"year"`
	CreatedBy     string    `json:"created_by"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReviewDTO is the wire shape of a review.
type ReviewDTO struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// BookDetail is a book together with its reviews, newest first.
type BookDetail struct {
	Book    BookDTO     `json:"book"`
	Reviews []ReviewDTO `json:"reviews"`
}

func NewBookDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		Genre:         b.Genre,
		Year:          b.Year,
		CreatedBy:     b.CreatedBy,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func NewBookDTOs(books []*book.Book) []BookDTO {
	out := make([]BookDTO, len(books))
	for i, b := range books {
		out[i] = NewBookDTO(b)
	}
	return out
}

func NewReviewDTO(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func NewReviewDTOs(reviews []*review.Review) []ReviewDTO {
	out := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		out[i] = NewReviewDTO(r)
	}
	return out
}
