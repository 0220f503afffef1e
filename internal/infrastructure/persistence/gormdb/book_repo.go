package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

// columns a client update may touch; aggregates are excluded
var bookEditableColumns = []string{"title", "author", "description", "cover_image", "genre", "published_year"}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates the GORM book repository.
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create book")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "failed to query book")
	}
	return toBookEntity(&model), nil
}

// LockByID issues SELECT ... FOR UPDATE. SQLite has no row locks and
// serializes writers on the database file instead.
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	db := getDB(ctx, r.db)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model BookModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock book")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	result := getDB(ctx, r.db).Model(&BookModel{ID: b.ID}).
		Select(bookEditableColumns).
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update book")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete soft-deletes the book.
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete book")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&BookModel{})

	// 1. filters
	if kw := params.KeywordFilter(); kw != "" {
		pattern := containsPattern(kw)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if genre := params.GenreFilter(); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if params.CreatedBy != "" {
		query = query.Where("created_by = ?", params.CreatedBy)
	}

	// 2. total before paging
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count books")
	}

	// 3. order
	switch book.NormalizeSort(params.SortBy) {
	case book.SortAuthor:
		query = query.Order("author ASC").Order("title ASC")
	case book.SortYear:
		query = query.Order("published_year DESC").Order("title ASC")
	case book.SortRating:
		query = query.Order("average_rating DESC").Order("review_count DESC").Order("title ASC")
	case book.SortNewest:
		query = query.Order("created_at DESC")
	default:
		query = query.Order("title ASC").Order("created_at ASC")
	}

	// 4. page
	if params.PageSize > 0 {
		query = query.Limit(params.PageSize).Offset(params.Offset())
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list books")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

func (r *bookRepository) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"review_count":   count,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to update book rating")
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
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
	}
}

func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Description:   model.Description,
		CoverImage:    model.CoverImage,
		Genre:         model.Genre,
		Year:          model.Year,
		CreatedBy:     model.CreatedBy,
		AverageRating: model.AverageRating,
		ReviewCount:   model.ReviewCount,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
