// Package cli provides the interactive penguin tracker command-line client.
//
// It wires configuration, the local credential store, the backend client
// and the session, query and mutation services behind a REPL. Typical flow:
// restore the previous session silently, start a background connectivity
// watcher, then execute user commands.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - List, search, filter by sex and sort the penguin list, page by page
//   - Show, add, edit and delete records
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
