// Package inmemdb is a process-local document store. Tables keep insertion order
// and every read returns copies.
package inmemdb

import (
	"sync"

	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type (
	DB struct {
		user     *userTable
		profile  *profileTable
		course   *courseTable
		category *categoryTable
		review   *reviewTable
	}

	userTable struct {
		rows  []*user.User
		mutex sync.RWMutex
	}

	profileTable struct {
		rows  []*user.Profile
		mutex sync.RWMutex
	}

	courseTable struct {
		rows  []*course.Course
		mutex sync.RWMutex
	}

	categoryTable struct {
		rows  []*category.Category
		mutex sync.RWMutex
	}

	reviewTable struct {
		rows  []*review.RatingAndReview
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:     &userTable{},
		profile:  &profileTable{},
		course:   &courseTable{},
		category: &categoryTable{},
		review:   &reviewTable{},
	}
}

// Repositories bundles the repositories of one DB.
type Repositories struct {
	Users      user.Repository
	Profiles   user.ProfileRepository
	Courses    course.Repository
	Categories category.Repository
	Reviews    review.Repository
}

func (db *DB) Repositories() Repositories {
	return Repositories{
		Users:      NewUserRepository(db),
		Profiles:   NewProfileRepository(db),
		Courses:    NewCourseRepository(db),
		Categories: NewCategoryRepository(db),
		Reviews:    NewReviewRepository(db),
	}
}
