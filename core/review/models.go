package review

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingAndReview struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Course primitive.ObjectID `json:"course" bson:"course"`
	Rating float64            `json:"rating" bson:"rating"`
	Review string             `json:"review" bson:"review"`
}

// Filter selects reviews by author and/or course. An empty Filter matches nothing
// so that a zero value never wipes the collection.
type Filter struct {
	User   *primitive.ObjectID
	Course *primitive.ObjectID
}

func (f Filter) IsEmpty() bool { return f.User == nil && f.Course == nil }

func (f Filter) Match(r RatingAndReview) bool {
	if f.IsEmpty() {
		return false
	}
	if f.User != nil && r.User != *f.User {
		return false
	}
	if f.Course != nil && r.Course != *f.Course {
		return false
	}
	return true
}

func ByUser(id primitive.ObjectID) Filter   { return Filter{User: &id} }
func ByCourse(id primitive.ObjectID) Filter { return Filter{Course: &id} }

type Repository interface {
	CreateReview(ctx context.Context, r RatingAndReview) (RatingAndReview, error)
	QueryReviews(ctx context.Context, filter Filter) ([]RatingAndReview, error)
	// DeleteReviews removes every review matching filter; returns the number deleted.
	DeleteReviews(ctx context.Context, filter Filter) (int, error)
}
