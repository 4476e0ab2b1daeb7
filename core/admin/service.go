// Package admin implements the admin dashboard operations: listings, platform stats,
// category management and the cascade deletes of users, courses and categories.
package admin

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/cascade"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type (
	Deps struct {
		Users      user.Repository
		Profiles   user.ProfileRepository
		Courses    course.Repository
		Categories category.Repository
		Reviews    review.Repository

		Mail       core.EmailService // optional
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		// CategoryPolicy is applied to courses.category when a category is deleted.
		CategoryPolicy cascade.Policy
	}

	Service struct {
		users      user.Repository
		profiles   user.ProfileRepository
		courses    course.Repository
		categories category.Repository
		reviews    review.Repository

		mail       core.EmailService
		logger     core.Logger
		validate   *validator.Validate
		translator ut.Translator
		edges      []cascade.Edge
	}

	// CourseDetails is a Course with its category and instructor expanded.
	// Dangling references are rendered as null.
	CourseDetails struct {
		course.Course
		Category   *category.Category `json:"category"`
		Instructor *user.User         `json:"instructor"`
	}
)

func NewService(deps Deps) *Service {
	return &Service{
		users:      deps.Users,
		profiles:   deps.Profiles,
		courses:    deps.Courses,
		categories: deps.Categories,
		reviews:    deps.Reviews,
		mail:       deps.Mail,
		logger:     deps.Logger,
		validate:   deps.Validate,
		translator: deps.Translator,
		edges:      cascade.WithCategoryPolicy(cascade.Edges, deps.CategoryPolicy),
	}
}

// Edges returns the reference policies the service deletes with.
func (svc *Service) Edges() []cascade.Edge {
	out := make([]cascade.Edge, len(svc.edges))
	copy(out, svc.edges)
	return out
}

func (svc *Service) ListUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	filter.Clean()
	users, err := svc.users.QueryUsers(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

func (svc *Service) ListCourses(ctx context.Context) ([]CourseDetails, error) {
	courses, err := svc.courses.QueryCourses(ctx, course.QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	categories, err := svc.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	instructors := user.NewResolver(svc.users)
	details := make([]CourseDetails, 0, len(courses))
	for _, c := range courses {
		d := CourseDetails{Course: c}
		if c.Category != nil {
			if cat, ok := categories[*c.Category]; ok {
				d.Category = &cat
			}
		}
		if d.Instructor, err = instructors.Resolve(ctx, c.Instructor); err != nil {
			return nil, errors.Wrap(err, "populating instructor")
		}
		details = append(details, d)
	}
	return details, nil
}

func (svc *Service) ListCategories(ctx context.Context) ([]category.Category, error) {
	categories, err := svc.categories.QueryCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	if categories == nil {
		categories = []category.Category{}
	}
	return categories, nil
}

// CreateCategory trims name and description and rejects a name already in use.
// The duplicate check is an exact match on the trimmed name.
func (svc *Service) CreateCategory(ctx context.Context, nc category.NewCategory) (category.Category, error) {
	if err := nc.Validate(svc.validate, svc.translator); err != nil {
		return category.Category{}, err
	}

	if _, err := svc.categories.GetCategoryByName(ctx, nc.Name); err == nil {
		return category.Category{}, category.ErrExists
	} else if !core.IsKind(err, core.KindNotFound) {
		return category.Category{}, errors.Wrap(err, "finding category by name")
	}

	cat, err := svc.categories.CreateCategory(ctx, category.Category{
		Name:        nc.Name,
		Description: nc.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return category.Category{}, errors.Wrap(err, "creating category")
	}
	return cat, nil
}

func (svc *Service) categoryIndex(ctx context.Context) (map[primitive.ObjectID]category.Category, error) {
	categories, err := svc.categories.QueryCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	idx := make(map[primitive.ObjectID]category.Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx, nil
}
