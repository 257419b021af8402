// Package cli provides the interactive Desa Bantuin terminal client.
//
// It wires configuration, the local database, the session store with the
// configured storage backend, the API client and services, and runs a REPL
// whose commands mirror the screens of the mobile app: login and register
// while signed out; home, history, request details, create request and
// profile while signed in.
//
// The REPL is started via App.Run(ctx), which restores the stored session,
// starts a background connectivity watcher and blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
