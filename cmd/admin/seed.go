package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

type seedUser struct {
	email, name, password string
	role                  model.Role
}

var demoUsers = []seedUser{
	{"prof@example.edu", "Professor Ada", "professor-demo", model.RoleProfessor},
	{"alice@example.edu", "Alice Student", "student-demo", model.RoleStudent},
	{"bob@example.edu", "Bob Student", "student-demo", model.RoleStudent},
}

// seed creates the demo accounts and, when the demo professor has none yet,
// one assignment due in a week. Running it twice changes nothing.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	for _, u := range demoUsers {
		err := cli.addUser(u.email, u.name, string(u.role), u.password)
		switch {
		case err == nil:
		case errors.Is(err, apperror.ErrConflict):
			fmt.Fprintf(cli.out, "skipped %s (exists)\n", u.email)
		default:
			return fmt.Errorf("seeding %s: %w", u.email, err)
		}
	}

	prof, err := cli.users.GetUserByEmail(ctx, demoUsers[0].email)
	if err != nil {
		return fmt.Errorf("loading demo professor: %w", err)
	}

	existing, err := cli.assignments.ListAssignments(ctx, repository.AssignmentFilter{CreatedBy: prof.ID})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintln(cli.out, "skipped demo assignment (exists)")
		return nil
	}

	a := &model.Assignment{
		Title:        "Build a URL shortener",
		Description:  "A small HTTP service that maps short codes to URLs.",
		Deadline:     time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Minute),
		Instructions: "Push your work to a public GitHub repository and submit its link.",
		CreatedBy:    prof.ID,
	}
	if err := cli.assignments.CreateAssignment(ctx, a); err != nil {
		return fmt.Errorf("seeding assignment: %w", err)
	}
	fmt.Fprintf(cli.out, "created assignment %q (%s)\n", a.Title, a.ID)
	return nil
}
