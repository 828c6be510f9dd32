package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"golang.org/x/term"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/repository"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	passwords   *auth.PasswordService
	out         io.Writer
	logger      *slog.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -role professor|student [-password PASSWORD]")
	fmt.Fprintln(cli.out, "      create a user; the password is prompted when -password is omitted")
	fmt.Fprintln(cli.out, "  seed")
	fmt.Fprintln(cli.out, "      create a demo professor, two students and one assignment (idempotent)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		email := fs.String("email", "", "Login email, matched exactly (case-sensitive).")
		name := fs.String("name", "", "Display name.")
		role := fs.String("role", "", "professor or student.")
		password := fs.String("password", "", "Password. Prompted when omitted.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *email == "" || *name == "" || *role == "" {
			fs.Usage()
			return errHelp
		}

		pwd := *password
		if pwd == "" {
			fmt.Fprint(cli.out, "Enter password:")
			raw, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				fs.Usage()
				return errHelp
			}
			pwd = string(raw)
		}
		return cli.addUser(*email, *name, *role, pwd)

	case "seed":
		return cli.seed()

	default:
		cli.printUsage()
		return errHelp
	}
}
