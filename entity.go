package warden

import (
	"context"
	"strings"

	"github.com/wardenkit/warden/cache"
	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

// Entity is the cached, compiled front door for one model. It compiles
// textual filter/sort expressions, routes reads through the cache
// coordinator when one is bound, and invalidates after writes. An
// Entity holds no mutable state and is safe for concurrent use.
type Entity struct {
	schema *schema.Schema
	engine Engine
	cache  *cache.Coordinator
}

// EntityOption configures an Entity.
type EntityOption func(*Entity)

// WithCache binds a cache coordinator. Without one every read goes
// straight to the engine.
func WithCache(c *cache.Coordinator) EntityOption {
	return func(e *Entity) { e.cache = c }
}

// NewEntity returns an entity over the given schema and engine.
func NewEntity(sc *schema.Schema, engine Engine, opts ...EntityOption) *Entity {
	e := &Entity{schema: sc, engine: engine}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schema returns the schema the entity is bound to.
func (e *Entity) Schema() *schema.Schema {
	return e.schema
}

// Select compiles filter and order and returns the matching records.
// An empty filter bypasses the cache and delegates to the engine: the
// full-table result set is too volatile to be worth a cache slot.
// Cached results are materialized once and rebuilt into fresh records
// per call, so callers may mutate what they get back.
func (e *Entity) Select(ctx context.Context, filter, order string) ([]*schema.Record, error) {
	var orderExpr predicate.Expr
	if strings.TrimSpace(order) != "" {
		var err error
		orderExpr, err = predicate.Compile(order, e.schema)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(filter) == "" {
		return e.engine.Select(ctx, e.schema, nil, orderExpr)
	}
	filterExpr, err := predicate.Compile(filter, e.schema)
	if err != nil {
		return nil, err
	}
	if e.cache == nil {
		return e.engine.Select(ctx, e.schema, filterExpr, orderExpr)
	}

	key := cache.KeyFor(e.schema.Name(), filterExpr, e.schema.Indexed())
	tag := cache.TagFor(queryText(filterExpr, orderExpr))

	var rows []map[string]any
	err = e.cache.GetOrCompute(ctx, key, tag, func(ctx context.Context) (any, error) {
		records, err := e.engine.Select(ctx, e.schema, filterExpr, orderExpr)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, len(records))
		for i, r := range records {
			out[i] = r.Values()
		}
		return out, nil
	}, &rows)
	if err != nil {
		return nil, err
	}

	records := make([]*schema.Record, len(rows))
	for i, row := range rows {
		records[i] = e.schema.Load(row)
	}
	return records, nil
}

// GetByID returns the record with the given identity. Hits come back
// from the point-lookup cache slot; an engine miss surfaces as a
// *NotFoundError and is never cached.
func (e *Entity) GetByID(ctx context.Context, id any) (*schema.Record, error) {
	if e.cache == nil {
		return e.engine.GetByID(ctx, e.schema, id)
	}
	key := cache.IdentityKey(e.schema.Name(), id)

	var row map[string]any
	err := e.cache.GetOrCompute(ctx, key, cache.PointTag, func(ctx context.Context) (any, error) {
		r, err := e.engine.GetByID(ctx, e.schema, id)
		if err != nil {
			return nil, err
		}
		return r.Values(), nil
	}, &row)
	if err != nil {
		return nil, err
	}
	return e.schema.Load(row), nil
}

// Save persists the record through the engine, then evicts every cache
// entry the record's indexed values could have contributed to. The
// write and the invalidation are not atomic: a concurrent read between
// them can observe the pre-write cache.
func (e *Entity) Save(ctx context.Context, r *schema.Record) (int, error) {
	n, err := e.engine.Save(ctx, r)
	if err != nil {
		return n, err
	}
	if e.cache != nil {
		if err := e.cache.InvalidateForWrite(ctx, r); err != nil {
			return n, err
		}
	}
	return n, nil
}

// queryText renders the canonical text a query tag is hashed from.
// Compiled expressions render deterministically, so semantically
// identical queries share a tag.
func queryText(filter, order predicate.Expr) string {
	var sb strings.Builder
	sb.WriteString(filter.String())
	if order != nil {
		sb.WriteString(" order ")
		sb.WriteString(order.String())
	}
	return sb.String()
}
