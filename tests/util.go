package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"net/mail"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	logsvc "github.com/princebhanderi/ed-tech-platform/services/logger"
)

// Config is a TEST config that does not read the environment.
func Config() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "StudyNotion",
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "StudyNotion", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			Address:            ":0",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			DisableRequestLogs: true,
		},
		Database: core.DatabaseConfig{Engine: "inmem"},
		Cascade:  core.CascadeConfig{CategoryPolicy: "retain"},
	}
}

// Logger discards everything and never reports to rollbar.
func Logger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// CreateUser stores usr, defaulting its role to Student. pwd is hashed when given.
func CreateUser(t *testing.T, repo user.Repository, usr user.User, pwd ...string) user.User {
	t.Helper()
	if usr.AccountType == "" {
		usr.AccountType = user.RoleStudent
	}
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
		usr.UpdatedAt = usr.CreatedAt
	}
	if len(pwd) > 0 {
		if err := usr.SetPassword(pwd[0]); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateUserWithProfile stores usr along with the Profile it owns.
func CreateUserWithProfile(t *testing.T, repo user.Repository, profiles user.ProfileRepository, usr user.User) user.User {
	t.Helper()
	p, err := profiles.CreateProfile(context.Background(), user.Profile{About: usr.FirstName})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	usr.AdditionalDetails = &p.ID
	return CreateUser(t, repo, usr)
}

func CreateCategory(t *testing.T, repo category.Repository, name string) category.Category {
	t.Helper()
	cat, err := repo.CreateCategory(context.Background(), category.Category{
		Name:        name,
		Description: name + " courses",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	return cat
}

// CreateCourse stores c, defaulting its status to Published.
// Use Enroll to fill both sides of the enrollment.
func CreateCourse(t *testing.T, repo course.Repository, c course.Course) course.Course {
	t.Helper()
	if c.Status == "" {
		c.Status = course.StatusPublished
	}
	if c.CourseDescription == "" {
		c.CourseDescription = c.CourseName
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c, err := repo.CreateCourse(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateReview(t *testing.T, repo review.Repository, userID, courseID primitive.ObjectID, rating float64) review.RatingAndReview {
	t.Helper()
	r, err := repo.CreateReview(context.Background(), review.RatingAndReview{
		User:   userID,
		Course: courseID,
		Rating: rating,
		Review: "review",
	})
	if err != nil {
		t.Fatalf("CreateReview() failed: %v", err)
	}
	return r
}

// Enroll returns c and usrs as they must be stored so that every user is enrolled
// in c on both sides. Store them with CreateCourse and CreateUser.
func Enroll(c course.Course, usrs ...*user.User) course.Course {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	for _, usr := range usrs {
		if usr.ID.IsZero() {
			usr.ID = primitive.NewObjectID()
		}
		if !core.ContainsID(c.EnrolledStudents, usr.ID) {
			c.EnrolledStudents = append(c.EnrolledStudents, usr.ID)
		}
		if !core.ContainsID(usr.EnrolledCourses, c.ID) {
			usr.EnrolledCourses = append(usr.EnrolledCourses, c.ID)
		}
	}
	return c
}

func IDPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }
