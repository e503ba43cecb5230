package cli

import (
	"context"
	"fmt"
)

func (a *App) currentEmail() string {
	if s := a.sessions.Current(); s != nil {
		return s.Email
	}
	return ""
}

func (a *App) getStatus() string {
	s := ""
	if email := a.currentEmail(); email != "" {
		s = email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root resumes the stored session, starts the connectivity watcher and runs
// the REPL until the user leaves or ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to CampusHire CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restore(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
