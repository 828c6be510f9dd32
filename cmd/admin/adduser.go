package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/assignment-hub/internal/model"
)

func (cli *commandLine) addUser(email, name, role, password string) error {
	r, err := model.ParseRole(strings.ToLower(strings.TrimSpace(role)))
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return fmt.Errorf("email and name are required")
	}

	hash, err := cli.passwords.Hash(password)
	if err != nil {
		return err
	}

	user := &model.User{Email: email, Name: name, Role: r, PasswordHash: hash}
	if err := cli.users.CreateUser(context.Background(), user); err != nil {
		return err
	}

	cli.logger.Info("user created",
		slog.String("id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role.String()),
	)
	fmt.Fprintf(cli.out, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
