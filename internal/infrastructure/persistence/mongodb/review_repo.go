package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuwethaV/bookreview/internal/domain/review"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookID    string             `bson:"bookId"`
	UserID    string             `bson:"userId"`
	UserName  string             `bson:"userName"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type reviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository creates the MongoDB review repository.
func NewReviewRepository(db *mongo.Database) review.Repository {
	return &reviewRepository{coll: db.Collection(reviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	doc := reviewDocument{
		BookID:    rv.BookID,
		UserID:    rv.UserID,
		UserName:  rv.UserName,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UTC(),
		UpdatedAt: rv.UpdatedAt.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return apperrors.Wrap(err, "failed to create review")
	}
	rv.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Review, error) {
	return r.list(ctx, bson.M{"bookId": bookID})
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]*review.Review, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *reviewRepository) list(ctx context.Context, filter bson.M) ([]*review.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reviews")
	}

	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode reviews")
	}

	reviews := make([]*review.Review, len(docs))
	for i := range docs {
		reviews[i] = docs[i].toEntity()
	}
	return reviews, nil
}

// SummaryForBook runs $group over every review of the book on the server.
func (r *reviewRepository) SummaryForBook(ctx context.Context, bookID string) (review.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bookId": bookID}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.M{"$avg": "$rating"}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return review.RatingSummary{}, apperrors.Wrap(err, "failed to aggregate reviews")
	}

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return review.RatingSummary{}, apperrors.Wrap(err, "failed to decode review summary")
	}
	if len(rows) == 0 {
		return review.RatingSummary{}, nil
	}
	return review.RatingSummary{Average: rows[0].Average, Count: rows[0].Count}, nil
}

func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"bookId": bookID})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete reviews")
	}
	return res.DeletedCount, nil
}

func (d *reviewDocument) toEntity() *review.Review {
	return &review.Review{
		ID:        d.ID.Hex(),
		BookID:    d.BookID,
		UserID:    d.UserID,
		UserName:  d.UserName,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
