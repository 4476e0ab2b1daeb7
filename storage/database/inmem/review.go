package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) CreateReview(_ context.Context, r review.RatingAndReview) (review.RatingAndReview, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	stored := r
	repo.db.rows = append(repo.db.rows, &stored)
	return r, nil
}

func (repo *reviewRepository) QueryReviews(_ context.Context, filter review.Filter) ([]review.RatingAndReview, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reviews := make([]review.RatingAndReview, 0)
	for _, r := range repo.db.rows {
		if filter.Match(*r) {
			reviews = append(reviews, *r)
		}
	}
	return reviews, nil
}

func (repo *reviewRepository) DeleteReviews(_ context.Context, filter review.Filter) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	kept := make([]*review.RatingAndReview, 0, len(repo.db.rows))
	for _, r := range repo.db.rows {
		if !filter.Match(*r) {
			kept = append(kept, r)
		}
	}
	n := len(repo.db.rows) - len(kept)
	repo.db.rows = kept
	return n, nil
}
