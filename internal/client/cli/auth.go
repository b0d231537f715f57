package cli

import (
	"context"
	"log"
	"os"

	"github.com/sittersafe/carelog/internal/client/session"
	"github.com/sittersafe/carelog/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts for an access token, derives the owner session from it and
// builds the session-scoped services. The token is read without echo.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in as", a.sess.OwnerID)
		return nil
	}

	token, err := getSecret("Enter access token: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	sess, err := session.FromToken(string(token))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}
	if err := sess.Check(nowFn()); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	if err := a.startSession(ctx, sess); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Logged in as", sess.OwnerID)
	return nil
}

// Logout tears the session down and drops the cached snapshots.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}
	a.endSession(ctx)
	printlnFn("Logged out")
	return nil
}
