package user

import (
	"context"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("User not found")
	ErrProfileNotFound = core.NewNotFoundError("Profile not found")
	ErrEmailExists     = core.NewConflictError("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id primitive.ObjectID) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryUsers returns the users matching filter in store order.
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		CountUsers(ctx context.Context, filter QueryFilter) (int, error)
		SetAccountType(ctx context.Context, id primitive.ObjectID, role Role) (bool, error)
		// PullCourseFromUsers removes courseID from every user's enrolled courses; returns the number of users modified.
		PullCourseFromUsers(ctx context.Context, courseID primitive.ObjectID) (int, error)
		DeleteUserByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	ProfileRepository interface {
		CreateProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfileByID(ctx context.Context, id primitive.ObjectID) (Profile, error)
		DeleteProfileByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	}

	// Service manages accounts outside of the admin cascades.
	Service struct {
		repo     Repository
		profiles ProfileRepository
		validate *validator.Validate
	}
)

func NewService(repo Repository, profiles ProfileRepository, validate *validator.Validate) *Service {
	return &Service{repo: repo, profiles: profiles, validate: validate}
}

func (svc *Service) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// CreateAdmin creates an Admin with an empty Profile, or promotes the existing user with the same email.
// The password policy applies to new accounts only; existing passwords are kept.
func (svc *Service) CreateAdmin(ctx context.Context, na NewAdmin) (User, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return User{}, err
	}

	usr, err := svc.GetByEmail(ctx, na.Email)
	switch {
	case err == nil:
		if usr.IsAdmin() {
			return usr, nil
		}
		if _, err = svc.repo.SetAccountType(ctx, usr.ID, RoleAdmin); err != nil {
			return User{}, errors.Wrap(err, "promoting user")
		}
		usr.AccountType = RoleAdmin
		return usr, nil
	case !core.IsKind(err, core.KindNotFound):
		return User{}, errors.Wrap(err, "finding user by email")
	}

	if err := ValidatePassword(na.Password, na.FirstName, na.LastName, na.Email); err != nil {
		return User{}, err
	}

	profile, err := svc.profiles.CreateProfile(ctx, Profile{})
	if err != nil {
		return User{}, errors.Wrap(err, "creating profile")
	}

	now := time.Now().UTC()
	usr = User{
		FirstName:         na.FirstName,
		LastName:          na.LastName,
		Email:             na.Email,
		AccountType:       RoleAdmin,
		AdditionalDetails: &profile.ID,
		EnrolledCourses:   []primitive.ObjectID{},
		Image:             avatarURL(na.FirstName, na.LastName),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := usr.SetPassword(na.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err = svc.repo.CreateUser(ctx, usr)
	return usr, errors.Wrap(err, "creating user")
}

func avatarURL(first, last string) string {
	return "https://api.dicebear.com/5.x/initials/svg?seed=" + url.QueryEscape(first+" "+last)
}
