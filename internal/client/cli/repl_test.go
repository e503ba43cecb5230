package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// silenceREPL swaps the REPL output seams and returns what was printed.
func silenceREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint, origPrintln := printFn, printlnFn
	printFn = func(...any) (int, error) { return 0, nil }
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printFn, printlnFn = origPrint, origPrintln })
	return &lines
}

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Reset(context.Context) error { return f.record("reset") }
func (f *fakeExec) Jobs(_ context.Context, q string) error {
	return f.record("jobs:" + q)
}
func (f *fakeExec) Show(_ context.Context, id string) error  { return f.record("show:" + id) }
func (f *fakeExec) Apply(_ context.Context, id string) error { return f.record("apply:" + id) }
func (f *fakeExec) Save(_ context.Context, id string) error  { return f.record("save:" + id) }
func (f *fakeExec) Saved(context.Context) error              { return f.record("saved") }
func (f *fakeExec) Apps(_ context.Context, args []string) error {
	return f.record("apps:" + strings.Join(args, "|"))
}
func (f *fakeExec) Profile(context.Context) error     { return f.record("profile") }
func (f *fakeExec) EditProfile(context.Context) error { return f.record("editprofile") }
func (f *fakeExec) Upload(_ context.Context, p string) error {
	return f.record("upload:" + p)
}
func (f *fakeExec) RemoveResume(context.Context) error { return f.record("rmresume") }

func run(exec execIface, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, r)
}

func TestRunREPL_SignedInFlow(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{}

	run(exec,
		"login",
		"jobs",
		"jobs data  engineer",
		"show j1",
		"apply j1",
		"save j1",
		"saved",
		"apps google -sort company",
		"profile",
		"editprofile",
		"upload my resume.pdf",
		"rmresume",
		"logout",
		"exit",
	)

	require.Equal(t, []string{
		"login",
		"jobs:",
		"jobs:data engineer",
		"show:j1",
		"apply:j1",
		"save:j1",
		"saved",
		"apps:google|-sort|company",
		"profile",
		"editprofile",
		"upload:my resume.pdf",
		"rmresume",
		"logout",
	}, exec.calls)
}

func TestRunREPL_SignedOutGate(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{}

	run(exec, "jobs", "foobar", "reset", "quit")

	require.Equal(t, []string{"reset"}, exec.calls)
	require.Contains(t, *out, "Please login first")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_Help(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{}

	run(exec, "help", "register", "help", "exit")

	require.Equal(t, helpSignedOut, (*out)[0])
	require.Equal(t, helpSignedIn, (*out)[1])
}

func TestRunREPL_Usage(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{loggedIn: true}

	run(exec, "show", "apply a b", "upload", "exit")

	require.Empty(t, exec.calls)
	require.Contains(t, *out, "Usage: show <id>")
	require.Contains(t, *out, "Usage: apply <id>")
	require.Contains(t, *out, "Usage: upload <path to pdf>")
}

func TestRunREPL_EOFAndLastLine(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{loggedIn: true}

	// no trailing newline and no exit: the last command still runs
	run(exec, "", "saved")

	require.Equal(t, []string{"saved"}, exec.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{loggedIn: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("saved\n")))
	require.Empty(t, exec.calls)
}
