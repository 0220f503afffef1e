package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/SuwethaV/bookreview/internal/domain/review"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates the GORM review repository.
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:   rv.BookID,
		UserID:   rv.UserID,
		UserName: rv.UserName,
		Rating:   rv.Rating,
		Comment:  rv.Comment,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create review")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Review, error) {
	return r.list(ctx, "book_id = ?", bookID)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]*review.Review, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *reviewRepository) list(ctx context.Context, cond string, arg string) ([]*review.Review, error) {
	var models []ReviewModel
	err := getDB(ctx, r.db).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

func (r *reviewRepository) SummaryForBook(ctx context.Context, bookID string) (review.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return review.RatingSummary{}, apperrors.Wrap(err, "failed to aggregate reviews")
	}
	return review.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	result := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "failed to delete reviews")
	}
	return result.RowsAffected, nil
}

func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:        model.ID,
		BookID:    model.BookID,
		UserID:    model.UserID,
		UserName:  model.UserName,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
