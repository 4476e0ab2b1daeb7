package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core/category"
)

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(categoriesCollection)}
}

func (repo *CategoryRepository) CreateCategory(ctx context.Context, c category.Category) (category.Category, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := repo.coll.InsertOne(ctx, c); err != nil {
		// lost the race against another create with the same name
		if mongo.IsDuplicateKeyError(err) {
			return category.Category{}, category.ErrExists
		}
		return category.Category{}, storeErr(err, "inserting category")
	}
	return c, nil
}

func (repo *CategoryRepository) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (category.Category, error) {
	var c category.Category
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, storeErr(err, "finding category", category.ErrNotFound)
}

func (repo *CategoryRepository) GetCategoryByName(ctx context.Context, name string) (category.Category, error) {
	var c category.Category
	err := repo.coll.FindOne(ctx, bson.M{"name": name}).Decode(&c)
	return c, storeErr(err, "finding category", category.ErrNotFound)
}

func (repo *CategoryRepository) QueryCategories(ctx context.Context) ([]category.Category, error) {
	cur, err := repo.coll.Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, storeErr(err, "querying categories")
	}
	categories := []category.Category{}
	if err = decodeAll(ctx, cur, &categories, "decoding categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

func (repo *CategoryRepository) CountCategories(ctx context.Context) (int, error) {
	n, err := repo.coll.CountDocuments(ctx, bson.M{})
	return int(n), storeErr(err, "counting categories")
}

func (repo *CategoryRepository) DeleteCategoryByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeErr(err, "deleting category")
	}
	return res.DeletedCount > 0, nil
}
