// Package store keeps the live diagram of every source context.
//
// A source context is a logical name such as "shop.yaml#1:1" (document and
// page). Each name holds at most one diagram: [Store.Put] replaces whatever
// was stored before, so regenerating a flow never accumulates stale
// diagrams. Backends:
//
//   - [MemoryStore]: process-local, for the server and tests
//   - [FileStore]: one JSON file per name, for the CLI
//   - [MongoStore]: a MongoDB collection, for multi-instance servers
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/screenflow/pkg/diagram"
)

// ErrNotFound is returned by Get and Delete for unknown names.
var ErrNotFound = errors.New("diagram not found")

// Record is a stored diagram.
type Record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Tier      string          `json:"tier"`
	Diagram   diagram.Diagram `json:"diagram"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store holds one live diagram per name.
type Store interface {
	// Put stores r under r.Name, replacing any previous record. It returns
	// the record as stored, with ID and timestamp filled, and reports whether
	// a record was replaced.
	Put(ctx context.Context, r Record) (stored Record, replaced bool, err error)
	Get(ctx context.Context, name string) (Record, error)
	Delete(ctx context.Context, name string) error
	// List returns every record, sorted by name.
	List(ctx context.Context) ([]Record, error)
	Close() error
}

// prepare fills the ID and timestamp of a record about to be stored.
func prepare(r Record) (Record, error) {
	if r.Name == "" {
		return r, errors.New("record name must not be empty")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	return r, nil
}
