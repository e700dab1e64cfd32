// Package state persists per-document optimization state in SQLite.
//
// The store lets the pipeline skip documents whose source fingerprint has not
// changed since the last run, and keeps enough metadata (title, hints, token
// estimate) to rebuild the llms.txt index without re-reading skipped files.
// Pipeline runs are recorded alongside for the stats command.
package state
