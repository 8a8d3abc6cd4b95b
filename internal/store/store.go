// Package store persists named comment bodies and their version history.
//
// Comments are keyed by document (usually the absolute path of the source
// file) and name. Every change to a body is kept as a new version.
package store

// Store is the interface for comment persistence.
type Store interface {
	// Get retrieves the latest body of a comment. The bool is false if the
	// comment has never been stored.
	Get(doc, name string) (string, bool, error)
	// Put stores a body, recording a new version when it differs from the
	// latest one.
	Put(doc, name, body string) error
	// Delete removes a comment and all of its versions.
	Delete(doc, name string) error
	// Names lists the stored comment names of a document in sorted order.
	Names(doc string) ([]string, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a stored comment.
type VersionEntry struct {
	ID      string
	Version int
	Body    string
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns versions newest first. A limit of 0 returns all.
	GetHistory(doc, name string, limit int) ([]VersionEntry, error)
}
