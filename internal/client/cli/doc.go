// Package cli provides the interactive CampusHire command-line client.
//
// It wires configuration, the local session store, API services, and an
// interactive REPL. On start the stored session is resumed when the server
// still accepts it and a background watcher keeps the online/offline mode
// shown in the prompt up to date.
//
// Key features:
//   - Register / Login / Logout / password reset
//   - Browse and search jobs, apply, save for later
//   - Track applications with their next online test or interview
//   - Edit the profile, upload or remove the PDF resume
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
