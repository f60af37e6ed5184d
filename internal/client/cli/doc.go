// Package cli provides the interactive Drift Desk terminal client.
//
// It wires configuration, the local session store, the REST client, the
// session and notification services, and a REPL whose commands open the
// client's screens. Typical flow: restore the stored session, show the
// drift list (or the sign-in hint), start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Login / Bootstrap / Logout, with forced sign-out on any 401
//   - Drift list with filters, detail with comments, create and edit
//   - Notifications with a polled unread counter
//   - Admin user management
//   - Spreadsheet export of the current listing
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
