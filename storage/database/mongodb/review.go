package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core/review"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection)}
}

// reviewFilter returns false for an empty filter, which must match nothing.
func reviewFilter(f review.Filter) (bson.M, bool) {
	if f.IsEmpty() {
		return nil, false
	}
	filter := bson.M{}
	if f.User != nil {
		filter["user"] = *f.User
	}
	if f.Course != nil {
		filter["course"] = *f.Course
	}
	return filter, true
}

func (repo *ReviewRepository) CreateReview(ctx context.Context, r review.RatingAndReview) (review.RatingAndReview, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := repo.coll.InsertOne(ctx, r)
	return r, storeErr(err, "inserting review")
}

func (repo *ReviewRepository) QueryReviews(ctx context.Context, f review.Filter) ([]review.RatingAndReview, error) {
	reviews := []review.RatingAndReview{}
	filter, ok := reviewFilter(f)
	if !ok {
		return reviews, nil
	}
	cur, err := repo.coll.Find(ctx, filter, byID)
	if err != nil {
		return nil, storeErr(err, "querying reviews")
	}
	if err = decodeAll(ctx, cur, &reviews, "decoding reviews"); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (repo *ReviewRepository) DeleteReviews(ctx context.Context, f review.Filter) (int, error) {
	filter, ok := reviewFilter(f)
	if !ok {
		return 0, nil
	}
	res, err := repo.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, storeErr(err, "deleting reviews")
	}
	return int(res.DeletedCount), nil
}
