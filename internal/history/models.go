// Package history persists one row per rewrite run so repeated runs over the
// same tree can be compared later.
package history

import "time"

const SchemaVersion = 1

type Run struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Root             string    `json:"root"`
	Mode             string    `json:"mode"` // "dry-run", "write", or "watch"
	FilesScanned     int       `json:"files_scanned"`
	FilesChanged     int       `json:"files_changed"`
	FilesPropagated  int       `json:"files_propagated"`
	AmbiguousSkipped int       `json:"ambiguous_skipped"`
	ShadowedSkipped  int       `json:"shadowed_skipped"`
	DurationMS       int64     `json:"duration_ms"`
}
