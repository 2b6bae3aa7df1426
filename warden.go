// Package warden is a middleware layer between a relational-record
// storage engine and its consumers. It compiles small textual
// filter/sort expressions into predicate trees, transparently caches
// query and point-lookup results with safe invalidation on write, and
// enforces a Unix-style read/write permission model at record and field
// granularity.
//
// The package owns no transport and no storage: rows come from an
// injected Engine, cache bytes live in an injected cache.Store, and
// permission bits are declared on schemas at registration time.
package warden

import (
	"context"

	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

// Engine is the storage collaborator an Entity delegates to. It must
// honor the full comparison/boolean operator set emitted by the
// predicate compiler. Engine failures propagate to callers unmodified;
// retry policy is theirs.
type Engine interface {
	// Select returns the records matching filter, ordered by order.
	// Either expression may be nil.
	Select(ctx context.Context, sc *schema.Schema, filter, order predicate.Expr) ([]*schema.Record, error)

	// GetByID returns the record with the given identity, or a
	// *NotFoundError.
	GetByID(ctx context.Context, sc *schema.Schema, id any) (*schema.Record, error)

	// Save persists the record and returns the number of rows
	// affected.
	Save(ctx context.Context, r *schema.Record) (int, error)
}
