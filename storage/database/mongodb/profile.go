package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

func (repo *ProfileRepository) CreateProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := repo.coll.InsertOne(ctx, p)
	return p, storeErr(err, "inserting profile")
}

func (repo *ProfileRepository) GetProfileByID(ctx context.Context, id primitive.ObjectID) (user.Profile, error) {
	var p user.Profile
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, storeErr(err, "finding profile", user.ErrProfileNotFound)
}

func (repo *ProfileRepository) DeleteProfileByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeErr(err, "deleting profile")
	}
	return res.DeletedCount > 0, nil
}
