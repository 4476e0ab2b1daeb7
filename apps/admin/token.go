package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	echoapi "github.com/princebhanderi/ed-tech-platform/apps/api/echo"
)

var errNotAdmin = errors.New("user is not an admin")

// token prints a signed API token for the admin with email.
func (cli *commandLine) token(ctx context.Context, email string) error {
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsAdmin() {
		return errNotAdmin
	}
	ss, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, cli.conf), cli.conf.SecretKey)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, ss)
	return nil
}
