package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

type bookDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Description   string             `bson:"description"`
	CoverImage    string             `bson:"coverImage"`
	Genre         string             `bson:"genre"`
	Year          int                `bson:"year"`
	CreatedBy     string             `bson:"createdBy"`
	AverageRating float64            `bson:"averageRating"`
	ReviewCount   int                `bson:"reviewCount"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository creates the MongoDB book repository.
func NewBookRepository(db *mongo.Database) book.Repository {
	return &bookRepository{coll: db.Collection(booksCollection)}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	doc := bookDocument{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		Genre:         b.Genre,
		Year:          b.Year,
		CreatedBy:     b.CreatedBy,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return apperrors.Wrap(err, "failed to create book")
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, book.ErrBookNotFound
	}

	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "failed to query book")
	}
	return doc.toEntity(), nil
}

// LockByID is FindByID: single-document writes are atomic and the aggregate
// is recomputed from the full review set on every write.
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	oid, ok := objectID(b.ID)
	if !ok {
		return book.ErrBookNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":       b.Title,
		"author":      b.Author,
		"description": b.Description,
		"coverImage":  b.CoverImage,
		"genre":       b.Genre,
		"year":        b.Year,
		"updatedAt":   time.Now().UTC(),
	}})
	if err != nil {
		return apperrors.Wrap(err, "failed to update book")
	}
	if res.MatchedCount == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return book.ErrBookNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete book")
	}
	if res.DeletedCount == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	filter := listFilter(params)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count books")
	}

	opts := options.Find().SetSort(listSort(params.SortBy))
	if params.PageSize > 0 {
		opts.SetSkip(int64(params.Offset())).SetLimit(int64(params.PageSize))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list books")
	}
	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to decode books")
	}

	books := make([]*book.Book, len(docs))
	for i := range docs {
		books[i] = docs[i].toEntity()
	}
	return books, total, nil
}

// UpdateRating only moves the aggregate forward. Reviews are never removed
// from a live book, so a write carrying a count not above the stored one
// comes from a slower writer that aggregated an older set and is dropped.
func (r *bookRepository) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	oid, ok := objectID(id)
	if !ok {
		return book.ErrBookNotFound
	}

	filter, update := ratingUpdate(oid, average, count)
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return apperrors.Wrap(err, "failed to update book rating")
	}
	if res.MatchedCount == 0 {
		logrus.WithFields(logrus.Fields{
			"book_id":      id,
			"review_count": count,
		}).Debug("rating update superseded by a newer aggregate")
	}
	return nil
}

func ratingUpdate(oid primitive.ObjectID, average float64, count int) (bson.M, bson.M) {
	filter := bson.M{"_id": oid, "reviewCount": bson.M{"$lt": count}}
	update := bson.M{"$set": bson.M{
		"averageRating": average,
		"reviewCount":   count,
		"updatedAt":     time.Now().UTC(),
	}}
	return filter, update
}

func listFilter(params book.ListParams) bson.M {
	filter := bson.M{}
	if kw := params.KeywordFilter(); kw != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"author": re},
		}
	}
	if genre := params.GenreFilter(); genre != "" {
		filter["genre"] = genre
	}
	if params.CreatedBy != "" {
		filter["createdBy"] = params.CreatedBy
	}
	return filter
}

func listSort(sortBy string) bson.D {
	switch book.NormalizeSort(sortBy) {
	case book.SortAuthor:
		return bson.D{{Key: "author", Value: 1}, {Key: "title", Value: 1}}
	case book.SortYear:
		return bson.D{{Key: "year", Value: -1}, {Key: "title", Value: 1}}
	case book.SortRating:
		return bson.D{{Key: "averageRating", Value: -1}, {Key: "reviewCount", Value: -1}, {Key: "title", Value: 1}}
	case book.SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "title", Value: 1}, {Key: "createdAt", Value: 1}}
	}
}

func (d *bookDocument) toEntity() *book.Book {
	return &book.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		Description:   d.Description,
		CoverImage:    d.CoverImage,
		Genre:         d.Genre,
		Year:          d.Year,
		CreatedBy:     d.CreatedBy,
		AverageRating: d.AverageRating,
		ReviewCount:   d.ReviewCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
