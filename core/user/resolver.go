package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
)

// Resolver looks up user references, each id at most once.
// It is not safe for concurrent use; make one per request.
type Resolver struct {
	repo  Repository
	users map[primitive.ObjectID]*User
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo, users: make(map[primitive.ObjectID]*User)}
}

// Resolve returns nil for a dangling reference.
func (r *Resolver) Resolve(ctx context.Context, id primitive.ObjectID) (*User, error) {
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	usr, err := r.repo.GetUserByID(ctx, id)
	if err != nil {
		if core.IsKind(err, core.KindNotFound) {
			r.users[id] = nil
			return nil, nil
		}
		return nil, err
	}
	r.users[id] = &usr
	return &usr, nil
}
