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
	ListChildren(ctx context.Context) error
	AddChild(ctx context.Context) error
	ShowChild(ctx context.Context) error
	DeleteChild(ctx context.Context) error
	LogEvent(ctx context.Context) error
	ListEvents(ctx context.Context) error
	DeleteEvent(ctx context.Context) error
	Stats(ctx context.Context) error
	Protocol(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the carelog CLI.
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
//	  - help           - show available commands
//	  - login          - authenticate with an access token
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - help           - show available commands
//	  - children       - list child profiles
//	  - addchild       - add a child profile
//	  - show           - show one profile (interactive id prompt)
//	  - delchild       - delete a profile
//	  - log            - log a care event
//	  - events         - list today's events
//	  - del            - delete an event
//	  - stats          - today's per-activity counts
//	  - protocol       - print the shift protocol
//	  - sync           - reconcile with the remote store now
//	  - logout         - log out
//	  - exit | quit    - leave the program
//
// Commands that need a session are rejected before dispatch when nobody is
// logged in. Any errors returned by command handlers are ignored here;
// handlers log their own errors. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("care %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: children, addchild, show, delchild, log, events, del, stats, protocol, sync, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "children", "ls":
			_ = a.ListChildren(ctx)

		case "addchild":
			_ = a.AddChild(ctx)

		case "show":
			_ = a.ShowChild(ctx)

		case "delchild":
			_ = a.DeleteChild(ctx)

		case "log":
			_ = a.LogEvent(ctx)

		case "events":
			_ = a.ListEvents(ctx)

		case "del":
			_ = a.DeleteEvent(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "protocol":
			_ = a.Protocol(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "logout":
			_ = a.Logout(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
