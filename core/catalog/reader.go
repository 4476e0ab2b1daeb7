// Package catalog serves the public, read-only views of categories and their courses.
package catalog

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

var (
	ErrCategoryIDRequired = core.NewInvalidArgumentError("Category ID is required")
	ErrInvalidCategoryID  = core.NewInvalidArgumentError("Invalid category ID format")
	ErrNoCourses          = core.NewNoContentError("No courses found for the selected category.")

	mostSellingLimit = 10

	// mockable
	randIntn = rand.New(rand.NewSource(time.Now().UnixNano())).Intn
)

type (
	Reader struct {
		categories category.Repository
		courses    course.Repository
		users      user.Repository
		reviews    review.Repository
	}

	CourseWithReviews struct {
		course.Course
		RatingAndReviews []review.RatingAndReview `json:"ratingAndReviews"`
	}

	CourseWithInstructor struct {
		course.Course
		Instructor *user.User `json:"instructor"`
	}

	SelectedCategory struct {
		category.Category
		Courses []CourseWithReviews `json:"courses"`
	}

	CategoryWithCourses struct {
		category.Category
		Courses []course.Course `json:"courses"`
	}

	CategoryPage struct {
		SelectedCategory   SelectedCategory       `json:"selectedCategory"`
		DifferentCategory  *CategoryWithCourses   `json:"differentCategory"`
		MostSellingCourses []CourseWithInstructor `json:"mostSellingCourses"`
	}
)

func NewReader(categories category.Repository, courses course.Repository, users user.Repository, reviews review.Repository) *Reader {
	return &Reader{categories: categories, courses: courses, users: users, reviews: reviews}
}

func (r *Reader) ShowAllCategories(ctx context.Context) ([]category.Category, error) {
	categories, err := r.categories.QueryCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	if categories == nil {
		categories = []category.Category{}
	}
	return categories, nil
}

// CategoryPageDetails builds the category page: the selected category with its published
// courses and their reviews, a random other category, and the best sellers of all categories.
func (r *Reader) CategoryPageDetails(ctx context.Context, categoryID string) (CategoryPage, error) {
	if categoryID == "" {
		return CategoryPage{}, ErrCategoryIDRequired
	}
	id, err := core.ParseID(categoryID)
	if err != nil {
		return CategoryPage{}, ErrInvalidCategoryID
	}

	selected, err := r.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return CategoryPage{}, errors.Wrap(err, "finding category by ID")
	}
	published, err := r.publishedCourses(ctx, id)
	if err != nil {
		return CategoryPage{}, err
	}
	if len(published) == 0 {
		return CategoryPage{}, ErrNoCourses
	}

	page := CategoryPage{
		SelectedCategory: SelectedCategory{
			Category: selected,
			Courses:  make([]CourseWithReviews, 0, len(published)),
		},
	}
	for _, c := range published {
		reviews, err := r.reviews.QueryReviews(ctx, review.ByCourse(c.ID))
		if err != nil {
			return CategoryPage{}, errors.Wrap(err, "querying course reviews")
		}
		if reviews == nil {
			reviews = []review.RatingAndReview{}
		}
		page.SelectedCategory.Courses = append(page.SelectedCategory.Courses, CourseWithReviews{Course: c, RatingAndReviews: reviews})
	}

	categories, err := r.categories.QueryCategories(ctx)
	if err != nil {
		return CategoryPage{}, errors.Wrap(err, "querying categories")
	}
	others := make([]category.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != id {
			others = append(others, c)
		}
	}
	if len(others) > 0 {
		other := others[randIntn(len(others))]
		courses, err := r.publishedCourses(ctx, other.ID)
		if err != nil {
			return CategoryPage{}, err
		}
		page.DifferentCategory = &CategoryWithCourses{Category: other, Courses: courses}
	}

	if page.MostSellingCourses, err = r.mostSelling(ctx, categories); err != nil {
		return CategoryPage{}, err
	}
	return page, nil
}

func (r *Reader) publishedCourses(ctx context.Context, categoryID primitive.ObjectID) ([]course.Course, error) {
	courses, err := r.courses.QueryCourses(ctx, course.QueryFilter{Status: course.StatusPublished, CategoryID: &categoryID})
	if err != nil {
		return nil, errors.Wrap(err, "querying category courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return courses, nil
}

// mostSelling scans categories in order and ranks their published courses by enrollment.
// Ties keep scan order.
func (r *Reader) mostSelling(ctx context.Context, categories []category.Category) ([]CourseWithInstructor, error) {
	var all []course.Course
	for _, cat := range categories {
		courses, err := r.publishedCourses(ctx, cat.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, courses...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return len(all[i].EnrolledStudents) > len(all[j].EnrolledStudents)
	})
	if len(all) > mostSellingLimit {
		all = all[:mostSellingLimit]
	}

	instructors := user.NewResolver(r.users)
	out := make([]CourseWithInstructor, 0, len(all))
	for _, c := range all {
		instructor, err := instructors.Resolve(ctx, c.Instructor)
		if err != nil {
			return nil, errors.Wrap(err, "populating instructor")
		}
		out = append(out, CourseWithInstructor{Course: c, Instructor: instructor})
	}
	return out, nil
}
