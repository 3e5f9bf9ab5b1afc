// Package history persists evaluation runs in a local SQLite database.
//
// Each eval or batch invocation records one Run row keyed by a UUID. The
// store uses WAL mode with a busy timeout, retries transient SQLITE_BUSY
// errors, and refuses to open databases written by a different schema
// version. Prune takes an advisory file lock beside the database so two
// processes never delete concurrently.
package history
