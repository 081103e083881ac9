// Package store persists generation summaries so finished runs can be
// listed and inspected after their artifacts are gone.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per record, used by the CLI
//   - [MongoStore]: a MongoDB collection, used by the HTTP server
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses $XDG_DATA_HOME/datasprout/runs/
//	rec := store.NewRecord(summary)
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//
//	recent, err := st.List(ctx, store.Query{Dataset: "bsbm", Limit: 10})
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/datasprout/pkg/workbook"
)

// DefaultListLimit bounds List when the query sets no limit.
const DefaultListLimit = 50

// Record is one finished generation run.
type Record struct {
	ID         string           `json:"id" bson:"_id"`
	Summary    workbook.Summary `json:"summary" bson:"summary"`
	ArchiveKey string           `json:"archive_key,omitempty" bson:"archive_key,omitempty"`
	Folders    []string         `json:"folders,omitempty" bson:"folders,omitempty"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record with a fresh id for summary.
func NewRecord(summary workbook.Summary) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
}

// Query filters List. Empty fields match everything.
type Query struct {
	Dataset string
	Mode    string
	Limit   int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultListLimit
	}
	return q.Limit
}

func (q Query) matches(r *Record) bool {
	if q.Dataset != "" && r.Summary.Dataset != q.Dataset {
		return false
	}
	if q.Mode != "" && r.Summary.Mode != q.Mode {
		return false
	}
	return true
}

// Store is the interface for summary storage backends.
type Store interface {
	// Save inserts or replaces rec.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by id.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns matching records, newest first.
	List(ctx context.Context, q Query) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
