package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type profileRepository struct {
	db *profileTable
}

func NewProfileRepository(db *DB) user.ProfileRepository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) CreateProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	stored := p
	repo.db.rows = append(repo.db.rows, &stored)
	return p, nil
}

func (repo *profileRepository) GetProfileByID(_ context.Context, id primitive.ObjectID) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.rows {
		if p.ID == id {
			return *p, nil
		}
	}
	return user.Profile{}, user.ErrProfileNotFound
}

func (repo *profileRepository) DeleteProfileByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, p := range repo.db.rows {
		if p.ID == id {
			repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
