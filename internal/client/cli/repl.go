package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Unfavorite(ctx context.Context, args []string) error
	Favorites(ctx context.Context) error
	Share(ctx context.Context, args []string) error
	Shares(ctx context.Context) error
	Prefs(ctx context.Context) error
	LinkedIn(ctx context.Context) error
	Users(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the tendertrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate (with second-factor step-up if enabled)
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - list           — list tenders (optional key=value filters)
//	  - show <id>      — show a single tender
//	  - update <id>    — update a tender's status and notes
//	  - fav <id>       — add a tender to favorites
//	  - unfav <id>     — remove a tender from favorites
//	  - favs           — list favorite tenders
//	  - share <id>     — share a tender with colleagues
//	  - shares         — list shares involving me
//	  - prefs          — edit notification preferences
//	  - linkedin       — set my LinkedIn URL
//	  - users          — list colleagues
//	  - whoami         — show the current session
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tt> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show, update, fav, unfav, favs, share, shares, prefs, linkedin, users, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args)

		case "update":
			if len(args) == 0 {
				printlnFn("Usage: update <id>")
				continue
			}
			_ = a.Update(ctx, args)

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.Favorite(ctx, args)

		case "unfav":
			if len(args) == 0 {
				printlnFn("Usage: unfav <id>")
				continue
			}
			_ = a.Unfavorite(ctx, args)

		case "favs":
			_ = a.Favorites(ctx)

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <id>")
				continue
			}
			_ = a.Share(ctx, args)

		case "shares":
			_ = a.Shares(ctx)

		case "prefs":
			_ = a.Prefs(ctx)

		case "linkedin":
			_ = a.LinkedIn(ctx)

		case "users":
			_ = a.Users(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
