// Package mongodb stores the platform collections in MongoDB.
package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

const (
	usersCollection      = "users"
	profilesCollection   = "profiles"
	coursesCollection    = "courses"
	categoriesCollection = "categories"
	reviewsCollection    = "ratingandreviews"
)

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

// Open connects to conf.Database.URI and pings the primary.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Database.ConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(conf.Database.URI).SetAppName(conf.AppName)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "pinging mongo")
	}
	return client, client.Database(conf.Database.Name), nil
}

// Indexes are the indexes the repositories rely on; categories.name is unique.
var Indexes = map[string][]mongo.IndexModel{
	categoriesCollection: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	reviewsCollection: {
		{Keys: bson.D{{Key: "course", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	},
	coursesCollection: {
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "studentsEnrolled", Value: 1}}},
	},
	usersCollection: {
		{Keys: bson.D{{Key: "courses", Value: 1}}},
	},
}

// EnsureIndexes creates the missing Indexes. Existing indexes are left as is.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range Indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

var (
	_ user.Repository        = (*UserRepository)(nil)
	_ user.ProfileRepository = (*ProfileRepository)(nil)
	_ course.Repository      = (*CourseRepository)(nil)
	_ category.Repository    = (*CategoryRepository)(nil)
	_ review.Repository      = (*ReviewRepository)(nil)
)

// Repositories bundles the repositories of one database.
type Repositories struct {
	Users      *UserRepository
	Profiles   *ProfileRepository
	Courses    *CourseRepository
	Categories *CategoryRepository
	Reviews    *ReviewRepository
}

func NewRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Users:      NewUserRepository(db),
		Profiles:   NewProfileRepository(db),
		Courses:    NewCourseRepository(db),
		Categories: NewCategoryRepository(db),
		Reviews:    NewReviewRepository(db),
	}
}

// storeErr classifies driver errors. notFound is returned for mongo.ErrNoDocuments when given.
func storeErr(err error, msg string, notFound ...error) error {
	switch {
	case err == nil:
		return nil
	case len(notFound) > 0 && errors.Is(err, mongo.ErrNoDocuments):
		return notFound[0]
	case errors.Is(err, mongo.ErrClientDisconnected):
		return core.NewShutdownError("mongo client disconnected: " + msg)
	}
	return core.NewStoreError(err, msg)
}

func decodeAll(ctx context.Context, cur *mongo.Cursor, out interface{}, msg string) error {
	defer func() { _ = cur.Close(ctx) }()
	return storeErr(cur.All(ctx, out), msg)
}
