package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  map[string][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Bootstrap(ctx context.Context) error {
	f.loggedIn, f.admin = true, true
	return f.record("bootstrap", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn, f.admin = false, false
	return f.record("logout", nil)
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) ListDrifts(ctx context.Context, args []string) error {
	return f.record("drifts", args)
}
func (f *fakeExec) ShowDrift(ctx context.Context, args []string) error { return f.record("show", args) }
func (f *fakeExec) NewDrift(ctx context.Context) error                  { return f.record("new", nil) }
func (f *fakeExec) EditDrift(ctx context.Context, args []string) error { return f.record("edit", args) }
func (f *fakeExec) AddComment(ctx context.Context, args []string) error {
	return f.record("comment", args)
}
func (f *fakeExec) DeleteComment(ctx context.Context, args []string) error {
	return f.record("uncomment", args)
}
func (f *fakeExec) ListNotifications(ctx context.Context, args []string) error {
	return f.record("notifications", args)
}
func (f *fakeExec) MarkRead(ctx context.Context, args []string) error { return f.record("read", args) }
func (f *fakeExec) MarkAllRead(ctx context.Context) error              { return f.record("readall", nil) }
func (f *fakeExec) ListUsers(ctx context.Context) error                { return f.record("users", nil) }
func (f *fakeExec) AddUser(ctx context.Context) error                  { return f.record("adduser", nil) }
func (f *fakeExec) Goto(ctx context.Context, args []string) error      { return f.record("goto", args) }
func (f *fakeExec) Health(ctx context.Context) error                   { return f.record("health", nil) }
func (f *fakeExec) Export(ctx context.Context, args []string) error    { return f.record("export", args) }

// captureOutput replaces printlnFn and returns the printed lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	return &lines
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	captureOutput(t)

	input := readerFromLines(
		"login",
		"drifts status=open search=disk",
		"d",
		"show 7",
		"new",
		"edit 7",
		"comment 7",
		"uncomment 3",
		"n unread",
		"read 4",
		"readall",
		"users",
		"adduser",
		"goto /drifts/new",
		"whoami",
		"health",
		"export out.xlsx",
		"logout",
		"exit",
		"show 99",
	)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	require.Equal(t, []string{
		"login", "drifts", "drifts", "show", "new", "edit", "comment", "uncomment",
		"notifications", "read", "readall", "users", "adduser", "goto", "whoami",
		"health", "export", "logout",
	}, exec.calls)
	require.Equal(t, []string{"7"}, exec.args["show"])
	require.Equal(t, []string{"unread"}, exec.args["notifications"])
	require.Equal(t, []string{"/drifts/new"}, exec.args["goto"])
	require.Empty(t, exec.args["drifts"], "last drifts call had no filters")
}

func TestRunREPL_HelpDependsOnRole(t *testing.T) {
	lines := captureOutput(t)

	input := readerFromLines("help", "login", "help", "logout", "bootstrap", "help", "quit")
	runREPL(context.Background(), &fakeExec{}, func() string { return "s" }, input)

	joined := strings.Join(*lines, "\n")
	require.Equal(t, 1, strings.Count(joined, helpGuest))
	require.Equal(t, 2, strings.Count(joined, helpUser))
	require.Equal(t, 1, strings.Count(joined, helpAdmin), "admin commands only after bootstrap")
	require.Contains(t, joined, "Bye!")
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	lines := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "bob (user) [2 unread]" }, rdr("\n   \nfoobar"))

	require.Empty(t, exec.calls)
	require.Contains(t, *lines, "Unknown command: foobar")
	require.Contains(t, *lines, "dd bob (user) [2 unread]> ")
}
