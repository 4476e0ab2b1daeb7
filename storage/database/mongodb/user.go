package mongodb

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func userFilter(qf user.QueryFilter) bson.M {
	filter := bson.M{}
	if qf.Role != "" {
		filter["accountType"] = qf.Role
	}
	if qf.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(qf.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"firstName": re},
			bson.M{"lastName": re},
			bson.M{"email": re},
		}
	}
	return filter
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID.IsZero() {
		usr.ID = primitive.NewObjectID()
	}
	if usr.EnrolledCourses == nil {
		usr.EnrolledCourses = []primitive.ObjectID{}
	}
	if _, err := repo.coll.InsertOne(ctx, usr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, storeErr(err, "inserting user")
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (user.User, error) {
	var usr user.User
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&usr)
	return usr, storeErr(err, "finding user", user.ErrNotFound)
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&usr)
	return usr, storeErr(err, "finding user", user.ErrNotFound)
}

func (repo *UserRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	cur, err := repo.coll.Find(ctx, userFilter(filter), byID)
	if err != nil {
		return nil, storeErr(err, "querying users")
	}
	users := []user.User{}
	if err = decodeAll(ctx, cur, &users, "decoding users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) CountUsers(ctx context.Context, filter user.QueryFilter) (int, error) {
	n, err := repo.coll.CountDocuments(ctx, userFilter(filter))
	return int(n), storeErr(err, "counting users")
}

func (repo *UserRepository) SetAccountType(ctx context.Context, id primitive.ObjectID, role user.Role) (bool, error) {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"accountType": role, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return false, storeErr(err, "updating account type")
	}
	return res.ModifiedCount > 0, nil
}

func (repo *UserRepository) PullCourseFromUsers(ctx context.Context, courseID primitive.ObjectID) (int, error) {
	res, err := repo.coll.UpdateMany(ctx, bson.M{"courses": courseID}, bson.M{"$pull": bson.M{"courses": courseID}})
	if err != nil {
		return 0, storeErr(err, "pulling course from users")
	}
	return int(res.ModifiedCount), nil
}

func (repo *UserRepository) DeleteUserByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeErr(err, "deleting user")
	}
	return res.DeletedCount > 0, nil
}
