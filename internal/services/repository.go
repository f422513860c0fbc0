// Package services provides repository interfaces and SQLite implementations
// for catalog snapshots: imported wine datasets kept so that the server can
// start from a database instead of a file.
package services

import "errors"

const (
	defaultSnapshotPage = 20
	maxSnapshotPage     = 200
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("not found")

// ListOptions selects and pages through stored snapshots. Results are
// newest first unless Oldest is set.
type ListOptions struct {
	Source string // Exact import source; "" matches every snapshot.
	Limit  int    // Page size (default 20, max 200).
	Offset int
	Oldest bool
}

// ListResult is one page of items plus the count of all matches.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (o ListOptions) normalized() ListOptions {
	switch {
	case o.Limit <= 0:
		o.Limit = defaultSnapshotPage
	case o.Limit > maxSnapshotPage:
		o.Limit = maxSnapshotPage
	}
	o.Offset = max(o.Offset, 0)
	return o
}

func (o ListOptions) direction() string {
	if o.Oldest {
		return "ASC"
	}
	return "DESC"
}
