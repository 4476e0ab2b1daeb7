package category

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
)

var (
	ErrNotFound      = core.NewNotFoundError("Category not found")
	ErrExists        = core.NewConflictError("Category already exists")
	ErrHasCourses    = core.NewConflictError("Category has courses")
	errMissingFields = "Category name and description are required"
)

type Category struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"` // UTC
}

// NewCategory contains information needed to create a new Category.
type NewCategory struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

// Validate trims the fields and checks they are not empty.
func (nc *NewCategory) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	if err := validate.Struct(nc); err != nil {
		if fields := core.TranslateErrors(err, translator); fields != nil {
			return core.NewInvalidArgumentError(errMissingFields, fields)
		}
		return err
	}
	return nil
}

type Repository interface {
	CreateCategory(ctx context.Context, c Category) (Category, error)
	GetCategoryByID(ctx context.Context, id primitive.ObjectID) (Category, error)
	// GetCategoryByName is an exact, case-sensitive match.
	GetCategoryByName(ctx context.Context, name string) (Category, error)
	// QueryCategories returns every category in store order.
	QueryCategories(ctx context.Context) ([]Category, error)
	CountCategories(ctx context.Context) (int, error)
	DeleteCategoryByID(ctx context.Context, id primitive.ObjectID) (bool, error)
}
