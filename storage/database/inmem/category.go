package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core/category"
)

type categoryRepository struct {
	db *categoryTable
}

func NewCategoryRepository(db *DB) category.Repository {
	return &categoryRepository{db: db.category}
}

// CreateCategory enforces name uniqueness like the unique index of the document store.
func (repo *categoryRepository) CreateCategory(_ context.Context, c category.Category) (category.Category, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, cat := range repo.db.rows {
		if cat.Name == c.Name {
			return category.Category{}, category.ErrExists
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	stored := c
	repo.db.rows = append(repo.db.rows, &stored)
	return c, nil
}

func (repo *categoryRepository) GetCategoryByID(_ context.Context, id primitive.ObjectID) (category.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.rows {
		if c.ID == id {
			return *c, nil
		}
	}
	return category.Category{}, category.ErrNotFound
}

func (repo *categoryRepository) GetCategoryByName(_ context.Context, name string) (category.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.rows {
		if c.Name == name {
			return *c, nil
		}
	}
	return category.Category{}, category.ErrNotFound
}

func (repo *categoryRepository) QueryCategories(_ context.Context) ([]category.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	categories := make([]category.Category, 0, len(repo.db.rows))
	for _, c := range repo.db.rows {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (repo *categoryRepository) CountCategories(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.rows), nil
}

func (repo *categoryRepository) DeleteCategoryByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, c := range repo.db.rows {
		if c.ID == id {
			repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
