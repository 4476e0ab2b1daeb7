package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf          *core.Config
	usrSvc        *user.Service
	out           io.Writer
	createIndexes func(ctx context.Context) error
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createadmin -email EMAIL -first FIRST_NAME -last LAST_NAME - create an admin, or promote an existing user")
	fmt.Println("  token -email EMAIL - print an API token for an admin")
	fmt.Println("  createindexes - create the database indexes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	createAdminEmail := createAdminCmd.String("email", "", "The admin's email. The password will be prompted next for new accounts.")
	createAdminFirst := createAdminCmd.String("first", "", "The admin's first name.")
	createAdminLast := createAdminCmd.String("last", "", "The admin's last name.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenEmail := tokenCmd.String("email", "", "The admin's email.")

	ctx := context.Background()

	switch args[1] {
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminEmail == "" || *createAdminFirst == "" || *createAdminLast == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createAdminCmd.Usage()
			return errHelp
		}
		return cli.createAdmin(ctx, user.NewAdmin{
			FirstName: *createAdminFirst,
			LastName:  *createAdminLast,
			Email:     *createAdminEmail,
			Password:  string(pwd),
		})

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenEmail == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(ctx, *tokenEmail)

	case "createindexes":
		return cli.createIndexes(ctx)

	default:
		cli.printUsage()
		return errHelp
	}
}
