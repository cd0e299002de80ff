package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bluballz/chat-auth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email, password, and optional display
// name, and attempts to create a new account.
//
// On success it prints the new identity and keeps the returned token pair
// in the API client. The password byte slice is securely wiped before
// returning. Any I/O or service error is printed and returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	displayName, err := getSimpleText(a.reader, "Enter display name (blank to use email)", os.Stdout)
	if err != nil {
		return err
	}

	session, err := a.api.Register(ctx, email, string(password), displayName)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.session = session
	fmt.Printf("Registered as %s (%s)\n", session.DisplayName, session.Email)
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.session = session
	fmt.Printf("Logged in as %s (%s)\n", session.DisplayName, session.Email)
	return nil
}

// Refresh rotates the current token pair. After a successful call the
// previous refresh token no longer works.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Tokens refreshed")
	return nil
}

// Whoami validates the current access token against the server and prints
// the identity it carries.
func (a *App) Whoami(ctx context.Context) error {
	session, ok, err := a.api.Validate(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if !ok {
		fmt.Println("Access token is not valid, try login or refresh")
		return nil
	}

	fmt.Printf("User %s (%s)\n", session.UserID, session.Email)
	return nil
}
