package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/princebhanderi/ed-tech-platform/apps/api/echo"
	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	inmemdb "github.com/princebhanderi/ed-tech-platform/storage/database/inmem"
	"github.com/princebhanderi/ed-tech-platform/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	repos := inmemdb.Open().Repositories()
	usrRepo = repos.Users

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		conf:          testutil.Config(),
		usrSvc:        user.NewService(repos.Users, repos.Profiles, validate),
		out:           &out,
		createIndexes: func(ctx context.Context) error { return nil },
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli, out := setup(t)
	student := testutil.CreateUser(t, usrRepo, user.User{FirstName: "Alan", LastName: "Turing", Email: "alan@test.cd"})

	orig := readPasswordFunc
	defer func() { readPasswordFunc = orig }()

	type extra struct{ pwd string }

	tests := []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"createadmin", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "missing last name", args: []string{"createadmin", "-email", "grace@navy.mil", "-first", "Grace"}, wantErr: errHelp},
		{name: "no password", args: []string{"createadmin", "-email", "grace@navy.mil", "-first", "Grace", "-last", "Hopper"}, wantErr: errHelp},
		{
			name: "weak password", args: []string{"createadmin", "-email", "grace@navy.mil", "-first", "Grace", "-last", "Hopper"},
			extra: extra{pwd: "password"}, wantErrStr: "invalid password",
		},
		{
			name: "created", args: []string{"createadmin", "-email", "Grace@Navy.mil", "-first", "Grace", "-last", "Hopper"},
			extra: extra{pwd: "Sup3rS3cret!"},
		},
		{
			name: "promoted", args: []string{"createadmin", "-email", student.Email, "-first", "Alan", "-last", "Turing"},
			extra: extra{pwd: "x"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			checkErr(t, tt, err)
			if err != nil {
				return
			}
			if !strings.HasPrefix(out.String(), "admin ") {
				t.Errorf("cli.run() out = %q", out.String())
			}
		})
	}

	grace, err := usrRepo.GetUserByEmail(context.Background(), "grace@navy.mil")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if !grace.IsAdmin() || grace.CheckPassword("Sup3rS3cret!") != nil {
		t.Errorf("createadmin: got %+v", grace)
	}
	alan, err := usrRepo.GetUserByID(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed, %v", err)
	}
	if !alan.IsAdmin() {
		t.Errorf("createadmin: %s not promoted", alan.Email)
	}
}

func Test_commandLine_token(t *testing.T) {
	cli, out := setup(t)
	adm := testutil.CreateUser(t, usrRepo, user.User{FirstName: "Root", Email: "root@test.cd", AccountType: user.RoleAdmin})
	student := testutil.CreateUser(t, usrRepo, user.User{FirstName: "Stu", Email: "stu@test.cd"})

	tests := []cliTest{
		{name: "no args", args: []string{"token"}, wantErr: errHelp},
		{name: "user not found", args: []string{"token", "-email", "lol@test.cd"}, wantErr: user.ErrNotFound},
		{name: "not admin", args: []string{"token", "-email", student.Email}, wantErr: errNotAdmin},
		{name: "admin", args: []string{"token", "-email", " ROOT@test.cd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			checkErr(t, tt, err)
			if err != nil {
				return
			}

			claims := new(echoapi.Claims)
			_, err = jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (interface{}, error) {
				return []byte(cli.conf.SecretKey), nil
			})
			if err != nil {
				t.Fatalf("jwt.ParseWithClaims() failed, %v", err)
			}
			if claims.ID != adm.ID.Hex() || !claims.IsAdmin() {
				t.Errorf("token claims = %+v, want admin %s", claims, adm.ID.Hex())
			}
		})
	}
}

func Test_commandLine_createIndexes(t *testing.T) {
	cli, _ := setup(t)

	var calls int
	cli.createIndexes = func(ctx context.Context) error {
		calls++
		if calls > 1 {
			return errors.New("connection refused")
		}
		return nil
	}

	tests := []cliTest{
		{name: "created", args: []string{"createindexes"}},
		{name: "failed", args: []string{"createindexes"}, wantErrStr: "connection refused"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
}
