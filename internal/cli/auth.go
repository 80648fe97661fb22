package cli

import (
	"context"
	"errors"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/cryptox"
)

// getPassword is an indirection so tests never touch the terminal.
var getPassword = GetPassword

// credentials takes the password from args or, when missing, prompts for it
// without echo.
func (a *App) credentials(cmd string, args []string) (string, []byte, error) {
	switch len(args) {
	case 1:
		pw, err := getPassword(a.out)
		if err != nil {
			return "", nil, err
		}
		return args[0], pw, nil
	case 2:
		return args[0], []byte(args[1]), nil
	}
	return "", nil, usageError(cmd)
}

func (a *App) cmdRegister(ctx context.Context, _ int64, args []string) error {
	username, password, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	u, err := a.users.Register(ctx, username, password)
	if err != nil {
		return err
	}

	a.printf("User %s created (id %d)\n", u.UserName, u.ID)
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ int64, args []string) error {
	username, password, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	id, err := a.users.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.session.Save(ctx, id); err != nil {
		return err
	}

	a.printf("Logged in as %s\n", username)
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ int64, _ []string) error {
	if _, ok := a.session.Load(ctx); !ok {
		a.println("No login session detected")
		return nil
	}
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, userID int64, _ []string) error {
	u, err := a.users.GetUser(ctx, userID)
	if errors.Is(err, common.ErrUnknownUser) {
		// the session points at an account that no longer exists
		_ = a.session.Clear(ctx)
		return common.ErrNotLoggedIn
	}
	if err != nil {
		return err
	}
	a.printf("%s (id %d)\n", u.UserName, u.ID)
	return nil
}
