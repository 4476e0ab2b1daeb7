package main

import (
	"context"
	"fmt"

	"github.com/princebhanderi/ed-tech-platform/core/user"
)

func (cli *commandLine) createAdmin(ctx context.Context, data user.NewAdmin) error {
	usr, err := cli.usrSvc.CreateAdmin(ctx, data)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "admin %s <%s>: %s\n", usr.FullName(), usr.Email, usr.ID.Hex())
	return nil
}
