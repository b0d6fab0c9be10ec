// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Login, signup, and logout command handlers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flamesai/flames-tui/internal/api"
)

// HandleLogin handles the "login" command. Email comes from --email or an
// interactive prompt; the password is always prompted without echo.
func HandleLogin(args Args) error {
	return runAuth(args, false)
}

// HandleSignup handles the "signup" command.
func HandleSignup(args Args) error {
	return runAuth(args, true)
}

func runAuth(args Args, signup bool) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}

	email := args.Email
	if email == "" {
		email, err = readLine("Email: ")
		if err != nil {
			return err
		}
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	var name string
	if signup {
		name, err = readLine("Name: ")
		if err != nil {
			return err
		}
		if name == "" {
			return errors.New("name must not be empty")
		}
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
	defer cancel()

	creds := api.Credentials{Name: name, Email: email, Password: password}
	var resp *api.AuthResponse
	if signup {
		resp, err = e.client.Signup(ctx, creds)
	} else {
		resp, err = e.client.Login(ctx, creds)
	}
	if err != nil {
		return authError(err)
	}

	if err := e.auth.Establish(resp.Token, &resp.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if !args.Quiet {
		name := resp.User.Name
		if name == "" {
			name = email
		}
		if signup {
			fmt.Println(okStyle.Render("[OK]"), "Account created. Signed in as", name)
		} else {
			fmt.Println(okStyle.Render("[OK]"), "Signed in as", name)
		}
	}
	return nil
}

// HandleLogout handles the "logout" command. Idempotent.
func HandleLogout(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}

	wasAuthed := e.auth.Current().Authenticated()
	if err := e.auth.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if !args.Quiet {
		if wasAuthed {
			fmt.Println(okStyle.Render("[OK]"), "Signed out")
		} else {
			fmt.Println(dimStyle.Render("Not signed in"))
		}
	}
	return nil
}

// authError maps API failures to messages that make sense at a login prompt.
func authError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return errors.New("email or password is incorrect")
	case errors.Is(err, api.ErrUnreachable):
		return errors.New("could not reach the backend; check your connection and backend.url")
	default:
		return err
	}
}
