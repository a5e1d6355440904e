package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zkpauth/internal/client/services"
	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", nil, err
	}
	if userName == "" {
		return "", nil, fmt.Errorf("%w: empty user name", common.ErrorInvalidArgument)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for credentials and registers the derived verifier.
// Registering an existing name replaces its password.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and runs one proof attempt.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.userName = ""
		fmt.Fprintln(a.out, "Login unsuccessful:", describeLoginError(err))
		return err
	}

	a.userName = sess.Username
	fmt.Fprintf(a.out, "Login successful, session %s\n", sess.SessionID)
	return nil
}

func describeLoginError(err error) string {
	var authErr *services.AuthenticationError
	if !errors.As(err, &authErr) {
		return err.Error()
	}
	switch authErr.Kind {
	case common.KindNotFound:
		return "unknown user or expired challenge"
	case common.KindPermissionDenied:
		return "wrong password"
	case common.KindInvalidArgument:
		return "request rejected as malformed"
	case common.KindUnavailable:
		return "server unavailable"
	default:
		return authErr.Error()
	}
}

func (a *App) Whoami(ctx context.Context) error {
	id, err := a.authService.Whoami(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Fprintln(a.out, "Not logged in")
		} else {
			fmt.Fprintln(a.out, "Error:", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "%s (session %s)\n", id.Username, id.SessionID)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Server unavailable:", err)
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}
