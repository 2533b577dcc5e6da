// Package persist keeps the durable slices of builder state across
// process restarts.
//
// Exactly three slices are persisted, together, as one named record:
//   - the saved forms collection
//   - the submitted responses
//   - the theme
//
// The in-progress form, undo history, selection and preview mode are never
// persisted; every session starts them fresh.
//
// # Record layout
//
// The record is named "form-builder-storage" and holds JSON:
//
//	{"forms":[...],"responses":[...],"theme":"light"}
//
// # Failure model
//
// Storage failures never crash the application. Adapter catches them,
// logs them, and marks itself degraded; the in-memory state stays
// authoritative for the rest of the session. The next successful flush
// clears the degraded flag.
//
// # Backends
//
//   - SQLite (github.com/mattn/go-sqlite3): a records table keyed by name,
//     WAL mode, schema embedded from schema.sql, user_version bookkeeping
//   - Memory: a map, for tests and throwaway sessions
package persist
