package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buildtrack/internal/client/client"
	"github.com/dmitrijs2005/buildtrack/internal/common"
)

// getSimpleText, getChoice and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getChoice = GetChoice
var getPassword = GetPassword

// registerRoles are the roles a user may pick for themselves.
var registerRoles = []string{client.RoleCustomer, client.RoleContractor}

// nowFn is a test seam for the clock used by Status.
var nowFn = time.Now

// Register prompts for name, email, role and password and creates an
// account. When the backend signs the new user in right away the prompt
// shows them as logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	role, err := getChoice(a.reader, "Role", registerRoles, client.RoleCustomer, a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Register(ctx, client.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: string(password),
		Role:     role,
	})
	if err != nil {
		return err
	}

	if a.isLoggedIn() {
		a.setUserName(displayName(user, email))
		printlnFn("Account created, you are logged in")
		return nil
	}
	printlnFn("Account created, please log in")
	return nil
}

// Login prompts for credentials and starts a new session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		a.log.Debug(ctx, "login failed", "error", err)
		return err
	}

	a.setUserName(displayName(user, email))
	printlnFn("Login successful")
	return nil
}

// Logout ends the session on the backend and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setUserName("")
	printlnFn("Logged out")
	return nil
}

// WhoAmI asks the backend who the session belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	a.setUserName(displayName(user, ""))
	printlnFn(fmt.Sprintf("%s <%s> role=%s id=%s", user.Name, user.Email, user.Role, user.ID))
	return nil
}

// Status prints what the stored tokens say about the session.
func (a *App) Status(ctx context.Context) error {
	st, err := a.authService.Status(ctx)
	if err != nil {
		return err
	}
	if !st.LoggedIn {
		printlnFn("Not logged in")
		return nil
	}

	line := "Logged in"
	if st.Subject != "" {
		line += " as " + st.Subject
	}
	if st.Role != "" {
		line += " (" + st.Role + ")"
	}
	printlnFn(line)

	now := nowFn()
	switch {
	case st.ExpiresAt.IsZero():
		printlnFn("Access token: opaque")
	case st.Expired(now):
		printlnFn(fmt.Sprintf("Access token: expired %s ago", now.Sub(st.ExpiresAt).Round(time.Second)))
	default:
		printlnFn(fmt.Sprintf("Access token: expires in %s", st.ExpiresAt.Sub(now).Round(time.Second)))
	}
	if st.HasRefreshToken {
		printlnFn("Refresh token: present")
	} else {
		printlnFn("Refresh token: none (session ends when the access token expires)")
	}
	return nil
}

func displayName(u *client.User, fallback string) string {
	if u == nil {
		return fallback
	}
	if u.Email != "" {
		return u.Email
	}
	if u.Name != "" {
		return u.Name
	}
	return fallback
}
