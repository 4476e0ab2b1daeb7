package inmemdb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type userRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func copyUser(usr *user.User) user.User {
	out := *usr
	out.EnrolledCourses = append([]primitive.ObjectID{}, usr.EnrolledCourses...)
	if usr.AdditionalDetails != nil {
		id := *usr.AdditionalDetails
		out.AdditionalDetails = &id
	}
	return out
}

func (repo *userRepository) find(id primitive.ObjectID) (int, *user.User) {
	for i, usr := range repo.db.rows {
		if usr.ID == id {
			return i, usr
		}
	}
	return -1, nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.rows {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	if usr.ID.IsZero() {
		usr.ID = primitive.NewObjectID()
	}
	if usr.EnrolledCourses == nil {
		usr.EnrolledCourses = []primitive.ObjectID{}
	}
	stored := copyUser(&usr)
	repo.db.rows = append(repo.db.rows, &stored)
	return copyUser(&stored), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id primitive.ObjectID) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, usr := repo.find(id); usr != nil {
		return copyUser(usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.Email == email {
			return copyUser(usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.rows))
	for _, usr := range repo.db.rows {
		if filter.Match(*usr) {
			users = append(users, copyUser(usr))
		}
	}
	return users, nil
}

func (repo *userRepository) CountUsers(ctx context.Context, filter user.QueryFilter) (int, error) {
	users, err := repo.QueryUsers(ctx, filter)
	return len(users), err
}

func (repo *userRepository) SetAccountType(_ context.Context, id primitive.ObjectID, role user.Role) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	_, usr := repo.find(id)
	if usr == nil {
		return false, nil
	}
	if usr.AccountType == role {
		return false, nil
	}
	usr.AccountType = role
	usr.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (repo *userRepository) PullCourseFromUsers(_ context.Context, courseID primitive.ObjectID) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for _, usr := range repo.db.rows {
		var pulled bool
		if usr.EnrolledCourses, pulled = core.PullID(usr.EnrolledCourses, courseID); pulled {
			n++
		}
	}
	return n, nil
}

func (repo *userRepository) DeleteUserByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	i, _ := repo.find(id)
	if i < 0 {
		return false, nil
	}
	repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
	return true, nil
}
