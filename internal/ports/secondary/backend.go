// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Row is a single tabular result record keyed by column name.
type Row map[string]any

// BucketInfo describes one object-storage bucket.
type BucketInfo struct {
	ID     string
	Name   string
	Public bool
}

// Backend defines the secondary port for the managed Postgres + object-storage
// service. All probe queries and remedies are expressible through these three
// operations, so nothing above this port knows how the service is reached.
type Backend interface {
	// ExecSQL runs a SQL statement server-side and returns the result rows.
	// Transport and server errors come back as ordinary errors.
	ExecSQL(ctx context.Context, statement string) ([]Row, error)

	// ListBuckets returns the object-storage bucket registry.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// CreateBucket creates an object-storage bucket.
	CreateBucket(ctx context.Context, name string, public bool) error
}
