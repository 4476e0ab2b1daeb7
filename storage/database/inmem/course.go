package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/course"
)

type courseRepository struct {
	db *courseTable
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func copyCourse(c *course.Course) course.Course {
	out := *c
	out.EnrolledStudents = append([]primitive.ObjectID{}, c.EnrolledStudents...)
	out.Tag = append([]string(nil), c.Tag...)
	out.Instructions = append([]string(nil), c.Instructions...)
	if c.Category != nil {
		id := *c.Category
		out.Category = &id
	}
	return out
}

func (repo *courseRepository) find(id primitive.ObjectID) (int, *course.Course) {
	for i, c := range repo.db.rows {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Status == "" {
		c.Status = course.StatusDraft
	}
	stored := copyCourse(&c)
	repo.db.rows = append(repo.db.rows, &stored)
	return copyCourse(&stored), nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id primitive.ObjectID) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, c := repo.find(id); c != nil {
		return copyCourse(c), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.rows))
	for _, c := range repo.db.rows {
		if filter.Match(*c) {
			courses = append(courses, copyCourse(c))
		}
	}
	return courses, nil
}

func (repo *courseRepository) CountCourses(ctx context.Context, filter course.QueryFilter) (int, error) {
	courses, err := repo.QueryCourses(ctx, filter)
	return len(courses), err
}

func (repo *courseRepository) PullStudent(_ context.Context, courseID, userID primitive.ObjectID) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	_, c := repo.find(courseID)
	if c == nil {
		return false, nil
	}
	var pulled bool
	c.EnrolledStudents, pulled = core.PullID(c.EnrolledStudents, userID)
	return pulled, nil
}

func (repo *courseRepository) PullStudentFromCourses(_ context.Context, userID primitive.ObjectID) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for _, c := range repo.db.rows {
		var pulled bool
		if c.EnrolledStudents, pulled = core.PullID(c.EnrolledStudents, userID); pulled {
			n++
		}
	}
	return n, nil
}

func (repo *courseRepository) UnsetCategory(_ context.Context, categoryID primitive.ObjectID) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for _, c := range repo.db.rows {
		if c.InCategory(categoryID) {
			c.Category = nil
			n++
		}
	}
	return n, nil
}

func (repo *courseRepository) DeleteCourseByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	i, _ := repo.find(id)
	if i < 0 {
		return false, nil
	}
	repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
	return true, nil
}
