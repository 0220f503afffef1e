package review

import (
	"math"
	"strings"
	"time"
)

// MaxCommentLength bounds Review.Comment in characters.
const MaxCommentLength = 2000

// Review is one user's rating and comment on a book.
// UserName is the author's display name at write time and is not kept in sync.
type Review struct {
	ID        string
	BookID    string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddInput is what a user submits.
type AddInput struct {
	BookID   string
	UserID   string
	UserName string
	Rating   int
	Comment  string
}

// NewReview builds a review with a trimmed comment.
func NewReview(in AddInput) *Review {
	now := time.Now()
	return &Review{
		BookID:    in.BookID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks rating range and comment presence and length.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	if r.Comment == "" {
		return ErrEmptyComment
	}
	if len([]rune(r.Comment)) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// RatingSummary is the aggregate written onto a book.
type RatingSummary struct {
	Average float64
	Count   int
}

// Summarize computes the rounded mean and count. An empty slice yields zeros.
func Summarize(reviews []*Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return RatingSummary{
		Average: RoundRating(float64(total) / float64(len(reviews))),
		Count:   len(reviews),
	}
}

// RoundRating rounds to one decimal, halves away from zero (4.25 -> 4.3).
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
