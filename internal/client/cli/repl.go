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
	isAdmin() bool
	Login(ctx context.Context) error
	Bootstrap(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListDrifts(ctx context.Context, args []string) error
	ShowDrift(ctx context.Context, args []string) error
	NewDrift(ctx context.Context) error
	EditDrift(ctx context.Context, args []string) error
	AddComment(ctx context.Context, args []string) error
	DeleteComment(ctx context.Context, args []string) error
	ListNotifications(ctx context.Context, args []string) error
	MarkRead(ctx context.Context, args []string) error
	MarkAllRead(ctx context.Context) error
	ListUsers(ctx context.Context) error
	AddUser(ctx context.Context) error
	Goto(ctx context.Context, args []string) error
	Health(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: login, bootstrap, health, exit"
	helpUser  = "Available commands: (d)rifts [key=value...], show <id>, new, edit <id>, " +
		"comment <driftId>, uncomment <id>, (n)otifications [unread], read <id>, readall, " +
		"goto <path>, export <file.xlsx>, whoami, health, logout, exit"
	helpAdmin = "Admin commands: users, adduser"
)

// runREPL starts a simple read-eval-print loop for the Drift Desk CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF
// or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                - show available commands
//	  - login               - sign in
//	  - bootstrap           - create the first administrator and sign in
//	  - health              - check the API
//	  - exit | quit         - leave the program
//
//	Logged in:
//	  - drifts [k=v...]     - list drifts (status, priority, search, assigned_to,
//	                          created_by, sort, order, limit, offset)
//	  - show <id>           - drift detail with comments
//	  - new | edit <id>     - create or edit a drift
//	  - comment <driftId>   - add a comment; uncomment <id> deletes one
//	  - notifications       - list notifications; read <id>, readall
//	  - users | adduser     - admin only
//	  - goto <path>         - open a screen by path, e.g. /drifts/3
//	  - export <file.xlsx>  - save the current listing
//	  - whoami | logout
//
// Command handlers print their own errors; the loop ignores returned
// errors to stay resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dd %s> ", statusFn()))
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if !a.isLoggedIn() {
				printlnFn(helpGuest)
				continue
			}
			printlnFn(helpUser)
			if a.isAdmin() {
				printlnFn(helpAdmin)
			}

		case "login":
			_ = a.Login(ctx)

		case "bootstrap":
			_ = a.Bootstrap(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "d", "drifts":
			_ = a.ListDrifts(ctx, args)

		case "show":
			_ = a.ShowDrift(ctx, args)

		case "new":
			_ = a.NewDrift(ctx)

		case "edit":
			_ = a.EditDrift(ctx, args)

		case "comment":
			_ = a.AddComment(ctx, args)

		case "uncomment":
			_ = a.DeleteComment(ctx, args)

		case "n", "notifications":
			_ = a.ListNotifications(ctx, args)

		case "read":
			_ = a.MarkRead(ctx, args)

		case "readall":
			_ = a.MarkAllRead(ctx)

		case "users":
			_ = a.ListUsers(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "goto":
			_ = a.Goto(ctx, args)

		case "health":
			_ = a.Health(ctx)

		case "export":
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
