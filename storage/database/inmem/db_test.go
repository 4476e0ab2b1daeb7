package inmemdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	inmemdb "github.com/princebhanderi/ed-tech-platform/storage/database/inmem"
	"github.com/princebhanderi/ed-tech-platform/tests"
)

var ctx = context.Background()

func TestUserRepository(t *testing.T) {
	repos := inmemdb.Open().Repositories()
	courseID := primitive.NewObjectID()

	alice := testutil.CreateUser(t, repos.Users, user.User{FirstName: "Alice", Email: "alice@test.cd", EnrolledCourses: []primitive.ObjectID{courseID}})
	bob := testutil.CreateUser(t, repos.Users, user.User{FirstName: "Bob", Email: "bob@test.cd"})
	assert.NotNil(t, bob.EnrolledCourses)

	_, err := repos.Users.CreateUser(ctx, user.User{Email: "alice@test.cd"})
	assert.Equal(t, user.ErrEmailExists, err)

	// stored rows are copies
	alice.EnrolledCourses[0] = primitive.NewObjectID()
	got, err := repos.Users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{courseID}, got.EnrolledCourses)

	ok, err := repos.Users.SetAccountType(ctx, bob.ID, user.RoleInstructor)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Users.SetAccountType(ctx, bob.ID, user.RoleInstructor)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repos.Users.CountUsers(ctx, user.QueryFilter{Role: user.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repos.Users.PullCourseFromUsers(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repos.Users.PullCourseFromUsers(ctx, courseID)
	require.NoError(t, err)
	assert.Zero(t, n)

	ok, err = repos.Users.DeleteUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Users.DeleteUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = repos.Users.GetUserByEmail(ctx, alice.Email)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestCourseRepository(t *testing.T) {
	repos := inmemdb.Open().Repositories()
	catID, studentID := primitive.NewObjectID(), primitive.NewObjectID()

	draft, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "Draft", Category: &catID})
	require.NoError(t, err)
	assert.Equal(t, course.StatusDraft, draft.Status)

	published := testutil.CreateCourse(t, repos.Courses, course.Course{
		CourseName: "Go", Category: &catID, EnrolledStudents: []primitive.ObjectID{studentID},
	})
	testutil.CreateCourse(t, repos.Courses, course.Course{CourseName: "Rust", EnrolledStudents: []primitive.ObjectID{studentID}})

	tests := []struct {
		name   string
		filter course.QueryFilter
		want   int
	}{
		{name: "all", want: 3},
		{name: "published", filter: course.QueryFilter{Status: course.StatusPublished}, want: 2},
		{name: "category", filter: course.QueryFilter{CategoryID: &catID}, want: 2},
		{name: "published in category", filter: course.QueryFilter{Status: course.StatusPublished, CategoryID: &catID}, want: 1},
		{name: "student", filter: course.QueryFilter{StudentID: &studentID}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := repos.Courses.CountCourses(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}

	pulled, err := repos.Courses.PullStudent(ctx, published.ID, studentID)
	require.NoError(t, err)
	assert.True(t, pulled)
	pulled, err = repos.Courses.PullStudent(ctx, primitive.NewObjectID(), studentID)
	require.NoError(t, err)
	assert.False(t, pulled)

	n, err := repos.Courses.PullStudentFromCourses(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repos.Courses.UnsetCategory(ctx, catID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	got, err := repos.Courses.GetCourseByID(ctx, published.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Empty(t, got.EnrolledStudents)

	ok, err := repos.Courses.DeleteCourseByID(ctx, published.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repos.Courses.GetCourseByID(ctx, published.ID)
	assert.Equal(t, course.ErrNotFound, err)
}

func TestCategoryRepository(t *testing.T) {
	repos := inmemdb.Open().Repositories()

	web := testutil.CreateCategory(t, repos.Categories, "Web")
	_, err := repos.Categories.CreateCategory(ctx, category.Category{Name: "Web"})
	assert.Equal(t, category.ErrExists, err)
	testutil.CreateCategory(t, repos.Categories, "web")

	got, err := repos.Categories.GetCategoryByName(ctx, "Web")
	require.NoError(t, err)
	assert.Equal(t, web.ID, got.ID)
	_, err = repos.Categories.GetCategoryByName(ctx, "WEB")
	assert.Equal(t, category.ErrNotFound, err)

	n, err := repos.Categories.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := repos.Categories.DeleteCategoryByID(ctx, web.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repos.Categories.GetCategoryByID(ctx, web.ID)
	assert.Equal(t, category.ErrNotFound, err)
}

func TestReviewRepository(t *testing.T) {
	repos := inmemdb.Open().Repositories()
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()
	c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()

	testutil.CreateReview(t, repos.Reviews, u1, c1, 5)
	testutil.CreateReview(t, repos.Reviews, u1, c2, 4)
	testutil.CreateReview(t, repos.Reviews, u2, c1, 3)

	// an empty filter matches nothing
	n, err := repos.Reviews.DeleteReviews(ctx, review.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	reviews, err := repos.Reviews.QueryReviews(ctx, review.ByCourse(c1))
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	n, err = repos.Reviews.DeleteReviews(ctx, review.ByUser(u1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reviews, err = repos.Reviews.QueryReviews(ctx, review.ByCourse(c1))
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, u2, reviews[0].User)
}
