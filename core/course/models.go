package course

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
)

// Status is the publication state of a Course.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

var ErrNotFound = core.NewNotFoundError("Course not found")

type Course struct {
	ID                primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	CourseName        string               `json:"courseName" bson:"courseName"`
	CourseDescription string               `json:"courseDescription" bson:"courseDescription"`
	Instructor        primitive.ObjectID   `json:"instructor" bson:"instructor"`
	WhatYouWillLearn  string               `json:"whatYouWillLearn,omitempty" bson:"whatYouWillLearn,omitempty"`
	Price             float64              `json:"price" bson:"price"`
	Thumbnail         string               `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Tag               []string             `json:"tag,omitempty" bson:"tag,omitempty"`
	Category          *primitive.ObjectID  `json:"category" bson:"category"`
	EnrolledStudents  []primitive.ObjectID `json:"studentsEnrolled" bson:"studentsEnrolled"`
	Instructions      []string             `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Status            Status               `json:"status" bson:"status"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"` // UTC
}

func (c *Course) IsPublished() bool { return c.Status == StatusPublished }

// Revenue is what the course earned so far: enrolled students × price.
func (c *Course) Revenue() float64 {
	return float64(len(c.EnrolledStudents)) * c.Price
}

// InCategory reports whether the course references categoryID.
func (c *Course) InCategory(categoryID primitive.ObjectID) bool {
	return c.Category != nil && *c.Category == categoryID
}

// QueryFilter narrows QueryCourses. Zero fields match everything.
type QueryFilter struct {
	Status     Status
	CategoryID *primitive.ObjectID
	StudentID  *primitive.ObjectID
	Instructor *primitive.ObjectID
}

func (qf QueryFilter) Match(c Course) bool {
	if qf.Status != "" && c.Status != qf.Status {
		return false
	}
	if qf.CategoryID != nil && !c.InCategory(*qf.CategoryID) {
		return false
	}
	if qf.StudentID != nil && !core.ContainsID(c.EnrolledStudents, *qf.StudentID) {
		return false
	}
	if qf.Instructor != nil && c.Instructor != *qf.Instructor {
		return false
	}
	return true
}

type Repository interface {
	CreateCourse(ctx context.Context, c Course) (Course, error)
	GetCourseByID(ctx context.Context, id primitive.ObjectID) (Course, error)
	// QueryCourses returns the courses matching filter in store order.
	QueryCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
	CountCourses(ctx context.Context, filter QueryFilter) (int, error)
	// PullStudent removes userID from the enrolled students of one course.
	// A missing course or an absent student is a no-op.
	PullStudent(ctx context.Context, courseID, userID primitive.ObjectID) (bool, error)
	// PullStudentFromCourses removes userID from every course; returns the number of courses modified.
	PullStudentFromCourses(ctx context.Context, userID primitive.ObjectID) (int, error)
	// UnsetCategory clears the category of every course referencing categoryID.
	UnsetCategory(ctx context.Context, categoryID primitive.ObjectID) (int, error)
	DeleteCourseByID(ctx context.Context, id primitive.ObjectID) (bool, error)
}
