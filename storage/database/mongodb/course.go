package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core/course"
)

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(coursesCollection)}
}

func courseFilter(qf course.QueryFilter) bson.M {
	filter := bson.M{}
	if qf.Status != "" {
		filter["status"] = qf.Status
	}
	if qf.CategoryID != nil {
		filter["category"] = *qf.CategoryID
	}
	if qf.StudentID != nil {
		filter["studentsEnrolled"] = *qf.StudentID
	}
	if qf.Instructor != nil {
		filter["instructor"] = *qf.Instructor
	}
	return filter
}

func (repo *CourseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Status == "" {
		c.Status = course.StatusDraft
	}
	if c.EnrolledStudents == nil {
		c.EnrolledStudents = []primitive.ObjectID{}
	}
	_, err := repo.coll.InsertOne(ctx, c)
	return c, storeErr(err, "inserting course")
}

func (repo *CourseRepository) GetCourseByID(ctx context.Context, id primitive.ObjectID) (course.Course, error) {
	var c course.Course
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, storeErr(err, "finding course", course.ErrNotFound)
}

func (repo *CourseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	cur, err := repo.coll.Find(ctx, courseFilter(filter), byID)
	if err != nil {
		return nil, storeErr(err, "querying courses")
	}
	courses := []course.Course{}
	if err = decodeAll(ctx, cur, &courses, "decoding courses"); err != nil {
		return nil, err
	}
	return courses, nil
}

func (repo *CourseRepository) CountCourses(ctx context.Context, filter course.QueryFilter) (int, error) {
	n, err := repo.coll.CountDocuments(ctx, courseFilter(filter))
	return int(n), storeErr(err, "counting courses")
}

func (repo *CourseRepository) PullStudent(ctx context.Context, courseID, userID primitive.ObjectID) (bool, error) {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{"$pull": bson.M{"studentsEnrolled": userID}})
	if err != nil {
		return false, storeErr(err, "pulling student from course")
	}
	return res.ModifiedCount > 0, nil
}

func (repo *CourseRepository) PullStudentFromCourses(ctx context.Context, userID primitive.ObjectID) (int, error) {
	res, err := repo.coll.UpdateMany(ctx, bson.M{"studentsEnrolled": userID}, bson.M{"$pull": bson.M{"studentsEnrolled": userID}})
	if err != nil {
		return 0, storeErr(err, "pulling student from courses")
	}
	return int(res.ModifiedCount), nil
}

func (repo *CourseRepository) UnsetCategory(ctx context.Context, categoryID primitive.ObjectID) (int, error) {
	res, err := repo.coll.UpdateMany(ctx, bson.M{"category": categoryID}, bson.M{"$set": bson.M{"category": nil}})
	if err != nil {
		return 0, storeErr(err, "unsetting course category")
	}
	return int(res.ModifiedCount), nil
}

func (repo *CourseRepository) DeleteCourseByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeErr(err, "deleting course")
	}
	return res.DeletedCount > 0, nil
}
