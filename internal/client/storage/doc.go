// Package storage is the client's on-disk "local storage".
//
// It keeps exactly two values between runs, the auth token and a JSON
// snapshot of the signed-in user, in a small SQLite file. The schema is
// managed with embedded goose migrations (see Open).
//
// Layers:
//
//   - KVRepository: a key/value table accessed through dbx.DBTX, so it
//     works against both *sql.DB and *sql.Tx.
//   - SessionStore: reads and writes the token and cached user together.
//     Save and Clear are transactional, so the two keys never disagree.
//
// Errors from the driver are wrapped with the key involved.
package storage
