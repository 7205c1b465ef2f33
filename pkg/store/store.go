// Package store persists finished runs so they can be listed and fetched
// later by the CLI history command and the HTTP API.
//
// Two backends are provided: [MemoryStore] keeps records for the lifetime of
// the process and [MongoStore] writes them to a MongoDB collection.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/antscheduler/pkg/io"
)

// ErrNotFound is returned by Get for unknown record IDs.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// Record is one persisted run.
type Record struct {
	ID         string         `json:"id" bson:"_id"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	Source     string         `json:"source,omitempty" bson:"source,omitempty"`
	GraphHash  string         `json:"graph_hash" bson:"graph_hash"`
	Operations int            `json:"operations" bson:"operations"`
	Cached     bool           `json:"cached" bson:"cached"`
	Run        io.RunDocument `json:"run" bson:"run"`
}

// NewRecord stamps a run with a fresh random ID and the current time.
func NewRecord(source, graphHash string, operations int, run io.RunDocument) Record {
	return Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Source:     source,
		GraphHash:  graphHash,
		Operations: operations,
		Run:        run,
	}
}

// Store saves and retrieves run records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts a record. Saving an existing ID replaces it.
	Save(ctx context.Context, rec Record) error

	// Get returns the record with the given ID or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first.
	// A limit <= 0 selects DefaultListLimit.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// ValidID reports whether id is a well-formed record ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
