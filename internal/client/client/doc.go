// Package client talks to the notebook server.
//
// Client is the transport-agnostic contract; GRPCClient implements it over
// the rpc.NotebookService. GRPCClient attaches the access token to every
// call and, when the server reports the token as expired, refreshes it once
// with the refresh token and retries. The rotated pair is handed to the
// session listener so it can be persisted.
//
// RemoteNotebooks adapts a Client to notebooksync.RemoteStore and
// BreakerRemote wraps any RemoteStore in a circuit breaker, so an unreachable
// server degrades sync to local-only at once instead of waiting out a
// timeout on every edit.
//
// gRPC status codes are mapped to the sentinel errors in errors.go; match
// them with errors.Is.
package client
