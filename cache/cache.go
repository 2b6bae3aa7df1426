// Package cache implements transparent caching of query and point
// lookup results with safe invalidation on write.
//
// The coordinator derives cache keys from model identity and predicate
// structure, performs get-or-compute against a pluggable Store, and on
// writes evicts every key the record's indexed values could have
// contributed to. Thread safety of the underlying storage is entirely
// the Store implementation's concern: the coordinator takes no locks
// and runs no background work.
package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Store is the capability the coordinator consumes. Entries are
// addressed by (key, tag): the key identifies the indexed-value bucket,
// the tag disambiguates distinct queries sharing that bucket.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the payload stored under (key, tag).
	// The second return is false on miss.
	Get(ctx context.Context, key, tag string) ([]byte, bool, error)

	// Put stores the payload under (key, tag), overwriting any
	// previous entry.
	Put(ctx context.Context, key, tag string, payload []byte) error

	// Evict removes the given keys with every tag stored under them.
	// Missing keys are ignored.
	Evict(ctx context.Context, keys ...string) error
}

// Coordinator performs get-or-compute and write invalidation against an
// injected Store. Construct it with NewCoordinator; the zero value is
// not usable.
type Coordinator struct {
	store Store
	codec Codec
	group *singleflight.Group
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCodec overrides the serialization codec. The default is msgpack.
func WithCodec(codec Codec) Option {
	return func(c *Coordinator) { c.codec = codec }
}

// WithSingleflight deduplicates concurrent computations of the same
// (key, tag). Without it, concurrent misses independently recompute,
// which is the documented baseline behavior.
func WithSingleflight() Option {
	return func(c *Coordinator) { c.group = new(singleflight.Group) }
}

// NewCoordinator returns a coordinator using the given store.
func NewCoordinator(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{store: store, codec: MsgpackCodec{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute resolves (key, tag) from the store, decoding the hit
// into dst. On miss it invokes compute, stores the encoded result and
// decodes that same payload into dst, so hit and miss paths both yield
// codec-canonical values. Compute errors propagate unmodified and leave
// the store untouched.
func (c *Coordinator) GetOrCompute(ctx context.Context, key, tag string, compute func(context.Context) (any, error), dst any) error {
	payload, ok, err := c.store.Get(ctx, key, tag)
	if err != nil {
		return err
	}
	if !ok {
		payload, err = c.computeAndPut(ctx, key, tag, compute)
		if err != nil {
			return err
		}
	}
	return c.codec.Unmarshal(payload, dst)
}

func (c *Coordinator) computeAndPut(ctx context.Context, key, tag string, compute func(context.Context) (any, error)) ([]byte, error) {
	fill := func() (any, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := c.codec.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(ctx, key, tag, payload); err != nil {
			return nil, err
		}
		return payload, nil
	}
	if c.group == nil {
		v, err := fill()
		if err != nil {
			return nil, err
		}
		return v.([]byte), nil
	}
	v, err, _ := c.group.Do(key+"\x1f"+tag, fill)
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
