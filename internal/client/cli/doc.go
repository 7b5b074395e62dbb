// Package cli provides the interactive useradmin command-line client.
//
// It wires configuration, the local token store, the API client and the
// services, then serves a REPL. The session routes between two views: the
// login view, and the users view which shows one page of users at a time
// with edit and delete actions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
