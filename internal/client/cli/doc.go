// Package cli provides the interactive kitchen notebook client.
//
// It wires configuration, the device-local store, the notebook server
// client and an interactive REPL. The notebook is always usable on the
// device; logging in adds sync with the account. A background watcher pings
// the server and reconciles the notebook whenever the server comes back.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
