package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn and printlnFn are test seams for REPL output. In tests, replace
// them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
	Jobs(ctx context.Context, query string) error
	Show(ctx context.Context, id string) error
	Apply(ctx context.Context, id string) error
	Save(ctx context.Context, id string) error
	Saved(ctx context.Context) error
	Apps(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	RemoveResume(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, reset, exit"
	helpSignedIn  = "Available commands: jobs [query], show <id>, apply <id>, save <id>, saved, " +
		"apps [query] [-sort upcoming|company], profile, editprofile, upload <path>, rmresume, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the CampusHire CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, on context cancellation or when the user
// types "exit" or "quit".
//
// Signed out, only help, register, login, reset and exit are accepted. The
// job, application and profile commands need a signed-in user.
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("ch %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			_ = a.Register(ctx)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "reset":
			_ = a.Reset(ctx)
			continue
		}

		if !a.isLoggedIn() {
			if isKnownCommand(cmd) {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)

		case "jobs":
			_ = a.Jobs(ctx, strings.Join(args, " "))

		case "show", "apply", "save":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				_ = a.Show(ctx, args[0])
			case "apply":
				_ = a.Apply(ctx, args[0])
			case "save":
				_ = a.Save(ctx, args[0])
			}

		case "saved":
			_ = a.Saved(ctx)

		case "apps":
			_ = a.Apps(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path to pdf>")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, " "))

		case "rmresume":
			_ = a.RemoveResume(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "logout", "jobs", "show", "apply", "save", "saved", "apps",
		"profile", "editprofile", "upload", "rmresume":
		return true
	}
	return false
}
