package logbook

import "context"

// Transport serves a database over a network protocol
type Transport interface {
	// Serve serves the database until the context ends
	Serve(ctx context.Context, db *DB) error
}
