package admin

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

var topCoursesLimit = 5

type (
	// Stats are live counts; the two counts are separate store calls.
	Stats struct {
		TotalUsers   int `json:"totalUsers"`
		TotalCourses int `json:"totalCourses"`
	}

	UserStats struct {
		Total       int `json:"total"`
		Students    int `json:"students"`
		Instructors int `json:"instructors"`
		Admins      int `json:"admins"`
	}

	CourseStats struct {
		Total     int `json:"total"`
		Published int `json:"published"`
		Draft     int `json:"draft"`
	}

	InstructorSummary struct {
		ID        primitive.ObjectID `json:"_id"`
		FirstName string             `json:"firstName"`
		LastName  string             `json:"lastName"`
		Email     string             `json:"email"`
		Image     string             `json:"image,omitempty"`
	}

	InstructorRevenue struct {
		Instructor InstructorSummary `json:"instructor"`
		Courses    int               `json:"courses"`
		Students   int               `json:"students"`
		Revenue    float64           `json:"revenue"`
	}

	CourseRevenue struct {
		ID         primitive.ObjectID `json:"_id"`
		CourseName string             `json:"courseName"`
		Thumbnail  string             `json:"thumbnail,omitempty"`
		Students   int                `json:"students"`
		Revenue    float64            `json:"revenue"`
	}

	// Overview is the platform dashboard: users by role, courses by status and revenue.
	Overview struct {
		Users        UserStats           `json:"users"`
		Courses      CourseStats         `json:"courses"`
		TotalRevenue float64             `json:"totalRevenue"`
		Instructors  []InstructorRevenue `json:"instructors"`
		TopCourses   []CourseRevenue     `json:"topCourses"`
	}
)

func (svc *Service) PlatformStats(ctx context.Context) (Stats, error) {
	users, err := svc.users.CountUsers(ctx, user.QueryFilter{})
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting users")
	}
	courses, err := svc.courses.CountCourses(ctx, course.QueryFilter{})
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting courses")
	}
	return Stats{TotalUsers: users, TotalCourses: courses}, nil
}

// PlatformOverview aggregates every user and course.
// A course's revenue is its enrolled students × price.
func (svc *Service) PlatformOverview(ctx context.Context) (Overview, error) {
	users, err := svc.users.QueryUsers(ctx, user.QueryFilter{})
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying users")
	}
	courses, err := svc.courses.QueryCourses(ctx, course.QueryFilter{})
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying courses")
	}

	ov := Overview{
		Users:       UserStats{Total: len(users)},
		Courses:     CourseStats{Total: len(courses)},
		Instructors: []InstructorRevenue{},
		TopCourses:  make([]CourseRevenue, 0, len(courses)),
	}

	byInstructor := make(map[primitive.ObjectID]*InstructorRevenue)
	for _, usr := range users {
		switch usr.AccountType {
		case user.RoleStudent:
			ov.Users.Students++
		case user.RoleInstructor:
			ov.Users.Instructors++
			ov.Instructors = append(ov.Instructors, InstructorRevenue{
				Instructor: InstructorSummary{
					ID:        usr.ID,
					FirstName: usr.FirstName,
					LastName:  usr.LastName,
					Email:     usr.Email,
					Image:     usr.Image,
				},
			})
		case user.RoleAdmin:
			ov.Users.Admins++
		}
	}
	for i := range ov.Instructors {
		byInstructor[ov.Instructors[i].Instructor.ID] = &ov.Instructors[i]
	}

	for _, c := range courses {
		switch c.Status {
		case course.StatusPublished:
			ov.Courses.Published++
		case course.StatusDraft:
			ov.Courses.Draft++
		}
		revenue := c.Revenue()
		ov.TotalRevenue += revenue
		ov.TopCourses = append(ov.TopCourses, CourseRevenue{
			ID:         c.ID,
			CourseName: c.CourseName,
			Thumbnail:  c.Thumbnail,
			Students:   len(c.EnrolledStudents),
			Revenue:    revenue,
		})
		if ir, ok := byInstructor[c.Instructor]; ok {
			ir.Courses++
			ir.Students += len(c.EnrolledStudents)
			ir.Revenue += revenue
		}
	}

	sort.SliceStable(ov.Instructors, func(i, j int) bool { return ov.Instructors[i].Revenue > ov.Instructors[j].Revenue })
	sort.SliceStable(ov.TopCourses, func(i, j int) bool { return ov.TopCourses[i].Revenue > ov.TopCourses[j].Revenue })
	if len(ov.TopCourses) > topCoursesLimit {
		ov.TopCourses = ov.TopCourses[:topCoursesLimit]
	}
	return ov, nil
}
