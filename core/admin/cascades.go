package admin

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/cascade"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/course"
	"github.com/princebhanderi/ed-tech-platform/core/review"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

// Plan and step names, as reported in cascade.Report and StepError.
const (
	PlanDeleteCourse   = "delete-course"
	PlanDeleteUser     = "delete-user"
	PlanDeleteCategory = "delete-category"

	StepDeleteCourse         = "delete-course"
	StepDeleteCourseReviews  = "delete-course-reviews"
	StepPullCourseFromUsers  = "pull-course-from-users"
	StepDeleteProfile        = "delete-profile"
	StepPullUserFromEnrolled = "pull-user-from-enrolled-courses"
	StepDeleteUserReviews    = "delete-user-reviews"
	StepPullUserFromCourses  = "pull-user-from-all-courses"
	StepDeleteUser           = "delete-user"
	StepUnsetCourseCategory  = "unset-course-category"
	StepDeleteCategory       = "delete-category"
)

var (
	courseDeletedTemplate  = "course_deleted"
	courseDeletedSubject   = "Your course has been removed"
	accountRemovedTemplate = "account_removed"
	accountRemovedSubject  = "Your account has been deleted"
)

// ParseCategoryPolicy parses the courses.category delete policy.
// Deleting the courses along with their category is not supported.
func ParseCategoryPolicy(s string) (cascade.Policy, error) {
	p, err := cascade.ParsePolicy(s)
	if err != nil {
		return p, err
	}
	if p == cascade.CascadeDelete {
		return p, errors.Errorf("unsupported category policy %q", s)
	}
	return p, nil
}

// DeleteCourse deletes the course, its reviews, and its id from every user's enrolled courses.
// An unknown or malformed id is course.ErrNotFound and nothing is written.
func (svc *Service) DeleteCourse(ctx context.Context, courseID string) (cascade.Report, error) {
	id, err := core.ParseID(courseID)
	if err != nil {
		return cascade.Report{}, course.ErrNotFound
	}
	c, err := svc.courses.GetCourseByID(ctx, id)
	if err != nil {
		return cascade.Report{}, errors.Wrap(err, "finding course by ID")
	}

	report, err := svc.deleteCoursePlan(c.ID).Run(ctx)
	if err != nil {
		return report, errors.Wrap(err, "deleting course")
	}
	svc.notifyInstructor(ctx, c)
	return report, nil
}

func (svc *Service) deleteCoursePlan(id primitive.ObjectID) cascade.Plan {
	return cascade.Plan{
		Name: PlanDeleteCourse,
		Steps: []cascade.Step{
			{
				Name: StepDeleteCourse,
				Apply: cascade.Count(func(ctx context.Context) (bool, error) {
					return svc.courses.DeleteCourseByID(ctx, id)
				}),
			},
			{
				Name: StepDeleteCourseReviews,
				Apply: func(ctx context.Context) (int, error) {
					return svc.reviews.DeleteReviews(ctx, review.ByCourse(id))
				},
			},
			{
				Name: StepPullCourseFromUsers,
				Apply: func(ctx context.Context) (int, error) {
					return svc.users.PullCourseFromUsers(ctx, id)
				},
			},
		},
	}
}

// DeleteUser deletes the user with their profile and reviews, and pulls them from every course.
// Courses they instruct are kept.
func (svc *Service) DeleteUser(ctx context.Context, userID string) (cascade.Report, error) {
	id, err := core.ParseID(userID)
	if err != nil {
		return cascade.Report{}, user.ErrNotFound
	}
	usr, err := svc.users.GetUserByID(ctx, id)
	if err != nil {
		return cascade.Report{}, errors.Wrap(err, "finding user by ID")
	}

	report, err := svc.deleteUserPlan(usr).Run(ctx)
	if err != nil {
		return report, errors.Wrap(err, "deleting user")
	}
	svc.notifyRemovedUser(usr)
	return report, nil
}

func (svc *Service) deleteUserPlan(usr user.User) cascade.Plan {
	id := usr.ID
	return cascade.Plan{
		Name: PlanDeleteUser,
		Steps: []cascade.Step{
			{
				Name: StepDeleteProfile,
				Apply: func(ctx context.Context) (int, error) {
					if usr.AdditionalDetails == nil {
						return 0, nil
					}
					return cascade.Count(func(ctx context.Context) (bool, error) {
						return svc.profiles.DeleteProfileByID(ctx, *usr.AdditionalDetails)
					})(ctx)
				},
			},
			{
				// one update per course; the next step catches whatever this list missed
				Name: StepPullUserFromEnrolled,
				Apply: func(ctx context.Context) (int, error) {
					var n int
					for _, courseID := range usr.EnrolledCourses {
						pulled, err := svc.courses.PullStudent(ctx, courseID, id)
						if err != nil {
							return n, errors.Wrapf(err, "pulling user from course %s", courseID.Hex())
						}
						if pulled {
							n++
						}
					}
					return n, nil
				},
			},
			{
				Name: StepDeleteUserReviews,
				Apply: func(ctx context.Context) (int, error) {
					return svc.reviews.DeleteReviews(ctx, review.ByUser(id))
				},
			},
			{
				Name: StepPullUserFromCourses,
				Apply: func(ctx context.Context) (int, error) {
					return svc.courses.PullStudentFromCourses(ctx, id)
				},
			},
			{
				Name: StepDeleteUser,
				Apply: cascade.Count(func(ctx context.Context) (bool, error) {
					return svc.users.DeleteUserByID(ctx, id)
				}),
			},
		},
	}
}

// DeleteCategory deletes the category. What happens to its courses depends on the
// courses.category policy: retain leaves them pointing at the deleted id, setnull clears
// their category, restrict refuses with category.ErrHasCourses.
func (svc *Service) DeleteCategory(ctx context.Context, categoryID string) (cascade.Report, error) {
	id, err := core.ParseID(categoryID)
	if err != nil {
		return cascade.Report{}, category.ErrNotFound
	}
	if _, err = svc.categories.GetCategoryByID(ctx, id); err != nil {
		return cascade.Report{}, errors.Wrap(err, "finding category by ID")
	}

	plan, err := svc.deleteCategoryPlan(ctx, id)
	if err != nil {
		return cascade.Report{}, err
	}
	report, err := plan.Run(ctx)
	if err != nil {
		return report, errors.Wrap(err, "deleting category")
	}
	return report, nil
}

func (svc *Service) deleteCategoryPlan(ctx context.Context, id primitive.ObjectID) (cascade.Plan, error) {
	plan := cascade.Plan{Name: PlanDeleteCategory}

	switch policy := cascade.PolicyOf(svc.edges, "courses.category"); policy {
	case cascade.Retain:
	case cascade.RestrictIfReferenced:
		n, err := svc.courses.CountCourses(ctx, course.QueryFilter{CategoryID: &id})
		if err != nil {
			return plan, errors.Wrap(err, "counting category courses")
		}
		if n > 0 {
			return plan, category.ErrHasCourses
		}
	case cascade.SetNull:
		plan.Steps = append(plan.Steps, cascade.Step{
			Name: StepUnsetCourseCategory,
			Apply: func(ctx context.Context) (int, error) {
				return svc.courses.UnsetCategory(ctx, id)
			},
		})
	default:
		return plan, errors.Errorf("unsupported category policy %s", policy)
	}

	plan.Steps = append(plan.Steps, cascade.Step{
		Name: StepDeleteCategory,
		Apply: cascade.Count(func(ctx context.Context) (bool, error) {
			return svc.categories.DeleteCategoryByID(ctx, id)
		}),
	})
	return plan, nil
}

// Notices are best effort: failures are logged, never returned.

func (svc *Service) notifyInstructor(ctx context.Context, c course.Course) {
	if svc.mail == nil {
		return
	}
	instructor, err := svc.users.GetUserByID(ctx, c.Instructor)
	if err != nil {
		if !core.IsKind(err, core.KindNotFound) {
			svc.logger.Warn(fmt.Sprintf("course notice: finding instructor %s: %v", c.Instructor.Hex(), err), err)
		}
		return
	}
	svc.send(instructor, courseDeletedSubject, courseDeletedTemplate, map[string]string{
		"FirstName":  instructor.FirstName,
		"CourseName": c.CourseName,
	})
}

func (svc *Service) notifyRemovedUser(usr user.User) {
	if svc.mail == nil {
		return
	}
	svc.send(usr, accountRemovedSubject, accountRemovedTemplate, map[string]string{
		"FirstName": usr.FirstName,
		"Email":     usr.Email,
	})
}

func (svc *Service) send(to user.User, subject, tmpl string, data map[string]string) {
	if to.Email == "" {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: to.FullName(), Address: to.Email}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: data,
	})
}
