package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

// MONGO_TEST_URI points at a disposable server; every test gets its own database.
const testURIEnv = "MONGO_TEST_URI"

func openTestDB(t *testing.T) Repositories {
	t.Helper()
	uri := os.Getenv(testURIEnv)
	if uri == "" {
		t.Skipf("%s not set", testURIEnv)
	}

	conf := &core.Config{
		AppName: "StudyNotion",
		Database: core.DatabaseConfig{
			URI:            uri,
			Name:           "studynotion_test_" + primitive.NewObjectID().Hex(),
			ConnectTimeout: 5 * time.Second,
		},
	}
	client, db, err := Open(context.Background(), conf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return NewRepositories(db)
}

func TestCourseRepository_pulls(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	ada, bob := primitive.NewObjectID(), primitive.NewObjectID()
	c1, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "Go", EnrolledStudents: []primitive.ObjectID{ada, bob}})
	require.NoError(t, err)
	c2, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "SQL", EnrolledStudents: []primitive.ObjectID{ada}})
	require.NoError(t, err)
	c3, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "Ops"})
	require.NoError(t, err)

	n, err := repos.Courses.PullStudentFromCourses(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// nothing left to pull
	n, err = repos.Courses.PullStudentFromCourses(ctx, ada)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repos.Courses.GetCourseByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob}, got.EnrolledStudents)
	got, err = repos.Courses.GetCourseByID(ctx, c2.ID)
	require.NoError(t, err)
	assert.Empty(t, got.EnrolledStudents)

	pulled, err := repos.Courses.PullStudent(ctx, c1.ID, bob)
	require.NoError(t, err)
	assert.True(t, pulled)
	pulled, err = repos.Courses.PullStudent(ctx, c3.ID, bob)
	require.NoError(t, err)
	assert.False(t, pulled)
	pulled, err = repos.Courses.PullStudent(ctx, primitive.NewObjectID(), bob)
	require.NoError(t, err)
	assert.False(t, pulled)
}

func TestCourseRepository_UnsetCategory(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	web, err := repos.Categories.CreateCategory(ctx, category.Category{Name: "Web", Description: "Web courses"})
	require.NoError(t, err)
	ops, err := repos.Categories.CreateCategory(ctx, category.Category{Name: "Ops", Description: "Ops courses"})
	require.NoError(t, err)

	inWeb, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "Go", Category: &web.ID})
	require.NoError(t, err)
	_, err = repos.Courses.CreateCourse(ctx, course.Course{CourseName: "HTML", Category: &web.ID})
	require.NoError(t, err)
	inOps, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "K8s", Category: &ops.ID})
	require.NoError(t, err)

	n, err := repos.Courses.UnsetCategory(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repos.Courses.GetCourseByID(ctx, inWeb.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	got, err = repos.Courses.GetCourseByID(ctx, inOps.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, ops.ID, *got.Category)

	count, err := repos.Courses.CountCourses(ctx, course.QueryFilter{CategoryID: &web.ID})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserRepository_PullCourseFromUsers(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	goID, sqlID := primitive.NewObjectID(), primitive.NewObjectID()
	ada, err := repos.Users.CreateUser(ctx, user.User{Email: "ada@test.cd", EnrolledCourses: []primitive.ObjectID{goID, sqlID}})
	require.NoError(t, err)
	bob, err := repos.Users.CreateUser(ctx, user.User{Email: "bob@test.cd", EnrolledCourses: []primitive.ObjectID{goID}})
	require.NoError(t, err)
	_, err = repos.Users.CreateUser(ctx, user.User{Email: "eve@test.cd"})
	require.NoError(t, err)

	n, err := repos.Users.PullCourseFromUsers(ctx, goID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repos.Users.GetUserByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{sqlID}, got.EnrolledCourses)
	got, err = repos.Users.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, got.EnrolledCourses)

	n, err = repos.Users.PullCourseFromUsers(ctx, goID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepositories_deletes(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	c, err := repos.Courses.CreateCourse(ctx, course.Course{CourseName: "Go"})
	require.NoError(t, err)
	usr, err := repos.Users.CreateUser(ctx, user.User{Email: "ada@test.cd"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = repos.Reviews.CreateReview(ctx, review.RatingAndReview{User: usr.ID, Course: c.ID, Rating: 4})
		require.NoError(t, err)
	}
	_, err = repos.Reviews.CreateReview(ctx, review.RatingAndReview{User: primitive.NewObjectID(), Course: primitive.NewObjectID(), Rating: 5})
	require.NoError(t, err)

	n, err := repos.Reviews.DeleteReviews(ctx, review.ByCourse(c.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = repos.Reviews.DeleteReviews(ctx, review.ByUser(usr.ID))
	require.NoError(t, err)
	assert.Zero(t, n)

	for i, want := range []bool{true, false} {
		deleted, err := repos.Courses.DeleteCourseByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, want, deleted, "course delete #%d", i+1)

		deleted, err = repos.Users.DeleteUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, want, deleted, "user delete #%d", i+1)
	}

	_, err = repos.Courses.GetCourseByID(ctx, c.ID)
	assert.Equal(t, course.ErrNotFound, err)
	_, err = repos.Users.GetUserByID(ctx, usr.ID)
	assert.Equal(t, user.ErrNotFound, err)
}
