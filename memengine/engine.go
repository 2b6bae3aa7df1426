// Package memengine provides an in-memory Engine implementation backing
// tests and examples. It evaluates compiled predicates over per-model
// tables held in process memory; real deployments supply an Engine over
// their own storage.
package memengine

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	warden "github.com/wardenkit/warden"
	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

// Engine stores records in per-model tables guarded by a single lock.
// Records are cloned on the way in and out, so callers never share
// value maps with the store.
type Engine struct {
	mu     sync.RWMutex
	tables map[string]*table
	coll   *collate.Collator
}

type table struct {
	order []string
	byID  map[string]*schema.Record
}

// New returns an empty engine. String comparisons use the root collation
// so ordering is stable across locales.
func New() *Engine {
	return &Engine{
		tables: make(map[string]*table),
		coll:   collate.New(language.Und),
	}
}

// Select implements warden.Engine. Records are matched in insertion
// order, then sorted by the order expression when one is given.
func (e *Engine) Select(_ context.Context, sc *schema.Schema, filter, order predicate.Expr) ([]*schema.Record, error) {
	keys, err := sortKeys(order)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []*schema.Record
	if t, ok := e.tables[sc.Name()]; ok {
		for _, id := range t.order {
			r := t.byID[id]
			if filter != nil {
				match, err := e.eval(filter, r)
				if err != nil {
					return nil, err
				}
				if !match {
					continue
				}
			}
			out = append(out, r.Clone())
		}
	}
	e.sortRecords(out, keys)
	return out, nil
}

// GetByID implements warden.Engine.
func (e *Engine) GetByID(_ context.Context, sc *schema.Schema, id any) (*schema.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.tables[sc.Name()]; ok {
		if r, ok := t.byID[idKey(id)]; ok {
			return r.Clone(), nil
		}
	}
	return nil, warden.NewNotFoundErrorWithID(sc.Name(), id)
}

// Save implements warden.Engine. Records without an identity get a UUID
// assigned before storage; the assignment is visible to the caller.
func (e *Engine) Save(_ context.Context, r *schema.Record) (int, error) {
	if r.ID() == nil {
		r.SetID(uuid.NewString())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	name := r.Schema().Name()
	t, ok := e.tables[name]
	if !ok {
		t = &table{byID: make(map[string]*schema.Record)}
		e.tables[name] = t
	}
	key := idKey(r.ID())
	if _, exists := t.byID[key]; !exists {
		t.order = append(t.order, key)
	}
	t.byID[key] = r.Clone()
	return 1, nil
}

// Len returns the number of records stored for the model.
func (e *Engine) Len(model string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.tables[model]; ok {
		return len(t.order)
	}
	return 0
}

// sortKey is one resolved sort directive.
type sortKey struct {
	field string
	desc  bool
}

// sortKeys flattens an order expression into sort directives. Accepted
// shapes are a single field reference, a signed sort marker, or a list
// of either.
func sortKeys(order predicate.Expr) ([]sortKey, error) {
	if order == nil {
		return nil, nil
	}
	switch o := order.(type) {
	case *predicate.FieldRef:
		return []sortKey{{field: o.Name}}, nil
	case *predicate.Order:
		return []sortKey{{field: o.Field, desc: o.Desc}}, nil
	case *predicate.List:
		keys := make([]sortKey, 0, len(o.Elems))
		for _, elem := range o.Elems {
			sub, err := sortKeys(elem)
			if err != nil {
				return nil, err
			}
			keys = append(keys, sub...)
		}
		return keys, nil
	}
	return nil, &predicate.UnsupportedError{Fragment: order.String()}
}

func (e *Engine) sortRecords(records []*schema.Record, keys []sortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, k := range keys {
			a, _ := records[i].Get(k.field)
			b, _ := records[j].Get(k.field)
			c, ok := e.compare(a, b)
			if !ok || c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// idKey renders an identity value for table addressing, normalizing the
// integer widths that show up after codec round-trips.
func idKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return stringOf(v)
	}
}

var _ warden.Engine = (*Engine)(nil)
