package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	inmemdb "github.com/princebhanderi/ed-tech-platform/storage/database/inmem"
	"github.com/princebhanderi/ed-tech-platform/tests"
)

const pwd = "Sup3rS3cret!"

func newService(t *testing.T) (*user.Service, inmemdb.Repositories) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	repos := inmemdb.Open().Repositories()
	return user.NewService(repos.Users, repos.Profiles, validate), repos
}

func TestService_CreateAdmin(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	usr, err := svc.CreateAdmin(ctx, user.NewAdmin{FirstName: " Grace ", LastName: "Hopper", Email: " Grace@Navy.MIL ", Password: pwd})
	require.NoError(t, err)

	assert.False(t, usr.ID.IsZero())
	assert.Equal(t, "Grace", usr.FirstName)
	assert.Equal(t, "grace@navy.mil", usr.Email)
	assert.Equal(t, user.RoleAdmin, usr.AccountType)
	assert.NotNil(t, usr.EnrolledCourses)
	assert.Contains(t, usr.Image, "seed=Grace+Hopper")
	assert.NoError(t, usr.CheckPassword(pwd))

	require.NotNil(t, usr.AdditionalDetails)
	_, err = repos.Profiles.GetProfileByID(ctx, *usr.AdditionalDetails)
	assert.NoError(t, err)

	// idempotent
	again, err := svc.CreateAdmin(ctx, user.NewAdmin{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Password: pwd})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, again.ID)

	n, err := repos.Users.CountUsers(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_CreateAdmin_promote(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, repos.Users, user.User{FirstName: "Alan", LastName: "Turing", Email: "alan@test.cd"}, "old")

	// the password policy does not apply to existing accounts
	usr, err := svc.CreateAdmin(ctx, user.NewAdmin{FirstName: "Alan", LastName: "Turing", Email: "ALAN@test.cd", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, student.ID, usr.ID)
	assert.Equal(t, user.RoleAdmin, usr.AccountType)

	stored, err := repos.Users.GetUserByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, stored.AccountType)
	assert.NoError(t, stored.CheckPassword("old"))
}

func TestService_CreateAdmin_invalid(t *testing.T) {
	svc, repos := newService(t)

	tests := []struct {
		name     string
		na       user.NewAdmin
		wantKind core.ErrorKind
	}{
		{name: "missing first name", na: user.NewAdmin{LastName: "Hopper", Email: "grace@navy.mil", Password: pwd}},
		{name: "blank last name", na: user.NewAdmin{FirstName: "Grace", LastName: "  ", Email: "grace@navy.mil", Password: pwd}},
		{name: "invalid email", na: user.NewAdmin{FirstName: "Grace", LastName: "Hopper", Email: "grace", Password: pwd}},
		{name: "missing password", na: user.NewAdmin{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil"}},
		{name: "weak password", na: user.NewAdmin{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Password: "password"}, wantKind: core.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAdmin(context.Background(), tt.na)
			if err == nil {
				t.Fatal("CreateAdmin() error = nil, want error")
			}
			if tt.wantKind == core.KindInvalidArgument && !core.IsKind(err, tt.wantKind) {
				t.Errorf("CreateAdmin() error = %v, want %v", err, tt.wantKind)
			}
		})
	}

	n, err := repos.Users.CountUsers(context.Background(), user.QueryFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_GetByEmail(t *testing.T) {
	svc, repos := newService(t)
	usr := testutil.CreateUser(t, repos.Users, user.User{FirstName: "Ada", Email: "ada@test.cd"})

	got, err := svc.GetByEmail(context.Background(), " ADA@test.cd")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByEmail(context.Background(), "nobody@test.cd")
	assert.Equal(t, user.ErrNotFound, err)
}
