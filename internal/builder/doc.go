// Package builder implements the form store: the mutation API behind the
// form editor and the owner of the in-progress form, its undo history and
// the saved forms collection.
//
// # Mutation model
//
// Every edit to the current form (title, description, field add, update,
// remove, reorder) funnels through one internal commit step. That step
// merges the change, advances UpdatedAt, truncates history after the cursor
// and appends the new snapshot. It is the only place history grows; only
// CreateForm and LoadForm reset it.
//
// # No-op semantics
//
// Operations invoked without their prerequisite (no current form, unknown
// field id, unknown saved form, out-of-range index) leave state unchanged
// and report false. They never return errors: the store is a best-effort
// UI layer and callers have nothing to recover.
//
// # Visibility
//
// Edits live in the current form only. SaveForm copies the current form
// into the saved collection, which is what other views (the filler, the
// dashboard) read.
//
// # Concurrency
//
// All entry points are serialized behind one mutex so there is exactly one
// authoritative snapshot at a time. Listeners run after the mutex is
// released and may call back into the store.
package builder
