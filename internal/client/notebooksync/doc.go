// Package notebooksync reconciles the notebook stored on this device with the
// copy the server keeps for the signed-in account.
//
// Conflicts are resolved last-writer-wins: the document with the higher
// version wins, then the later updatedAt, and on an exact tie the remote copy
// wins. There is no content merge; when two devices edit offline, one
// device's edits are discarded at the next reconcile.
//
// Local storage is the durability floor. Remote and identity failures never
// surface as errors; they degrade the call to local-only and are reported in
// Result.Fallback or SaveResult.Fallback. Only a failing local store is
// returned as an error.
//
// A Syncer does not serialise its callers. Callers must not run two
// Reconcile or SaveUnified calls concurrently.
package notebooksync
