// Package store implements the record store: a small persistent key-value
// store holding one JSON array per entity collection.
package store

import "context"

// Collection keys. The names are the historical storage keys and must not
// change, or existing databases become unreadable.
const (
	KeyClients  = "clients"
	KeyInvoices = "factures"
	KeyProjects = "projets"
	KeyGoals    = "objectifs"
)

// Keys lists every known collection key.
var Keys = []string{KeyClients, KeyInvoices, KeyProjects, KeyGoals}

// Store is the persistence boundary. Values are opaque JSON payloads; the
// store enforces no schema. Writes replace the whole payload (last write
// wins).
type Store interface {
	// Get returns the payload for key. found is false when the key has never
	// been written.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Set replaces the payload for key.
	Set(ctx context.Context, key string, payload []byte) error
	// Close releases underlying resources.
	Close() error
}
