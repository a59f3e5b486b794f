package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/grovellows/tendertrack/internal/client/session"
	"github.com/grovellows/tendertrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate.
//
// When the account has multi-factor authentication enabled, the server asks
// for a second factor and the method enters a code-entry loop: the user may
// retry after an invalid code, or type "cancel" (or submit an empty line) to
// abandon the attempt. The password byte slice is securely wiped before
// returning.
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

	out, err := a.session.Login(ctx, email, password)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	if out.SecondFactorRequired {
		return a.secondFactorLoop(ctx)
	}

	log.Printf("Logged in as %s", out.User.Email)
	return nil
}

func (a *App) secondFactorLoop(ctx context.Context) error {
	for {
		code, err := getSimpleText(a.reader, "Enter verification code (or 'cancel')", os.Stdout)
		if err != nil {
			_ = a.session.CancelSecondFactor()
			return err
		}
		if code == "" || code == "cancel" {
			if err := a.session.CancelSecondFactor(); err != nil {
				return err
			}
			log.Printf("Login cancelled")
			return nil
		}

		user, err := a.session.VerifySecondFactor(ctx, code)
		if err != nil {
			if errors.Is(err, session.ErrInvalidSecondFactor) {
				log.Printf("Code not accepted, try again")
				continue
			}
			log.Printf("Verification failed: %s", err.Error())
			return err
		}

		log.Printf("Logged in as %s", user.Email)
		return nil
	}
}

// Logout tears down the session. Local state is cleared even when the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		log.Printf("Logout finished with error: %s", err.Error())
		return err
	}
	log.Printf("Logged out")
	return nil
}

// WhoAmI prints the current session's user and status.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\nRole: %s\n", u.Name, u.Email, u.Role)
	if u.LinkedInURL != "" {
		fmt.Printf("LinkedIn: %s\n", u.LinkedInURL)
	}
	return nil
}
