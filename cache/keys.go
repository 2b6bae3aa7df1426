package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

// PointTag is the constant tag used for point lookups by identity.
const PointTag = "-"

// KeyFor derives the cache key for a query: the model name, followed by
// name=value pairs for every indexed field that resolves to an equality
// value in the predicate, joined with ":" in field declaration order.
// A key is a pure function of (model name, predicate, indexed fields):
// semantically identical queries always produce the same key.
func KeyFor(model string, p predicate.Expr, indexed []*schema.Field) string {
	var sb strings.Builder
	sb.WriteString(model)
	if p == nil {
		return sb.String()
	}
	for _, f := range indexed {
		if v, ok := predicate.EqualityValue(p, f.Name()); ok {
			sb.WriteString(":")
			sb.WriteString(f.Name())
			sb.WriteString("=")
			sb.WriteString(keyValue(v))
		}
	}
	return sb.String()
}

// TagFor returns the content hash tag of the fully rendered query text,
// separating queries that share indexed-field values but differ in
// other clauses.
func TagFor(queryText string) string {
	sum := sha256.Sum256([]byte(queryText))
	return hex.EncodeToString(sum[:16])
}

// IdentityKey returns the degenerate key used for point lookups.
func IdentityKey(model string, id any) string {
	return model + ":" + keyValue(id)
}

// InvalidateForWrite evicts every cache entry the record could have
// contributed to: one key per subset of the schema's indexed fields
// (the empty subset included) built from the record's current values,
// plus the bare identity key. The coordinator does not track which
// predicates are cached under which keys, so it deliberately fans out
// over this superset; eviction is cheap and stale entries are not.
func (c *Coordinator) InvalidateForWrite(ctx context.Context, r *schema.Record) error {
	sc := r.Schema()
	indexed := sc.Indexed()

	seen := make(map[string]struct{})
	var keys []string
	add := func(k string) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}

	for subset := 0; subset < 1<<len(indexed); subset++ {
		var sb strings.Builder
		sb.WriteString(sc.Name())
		for i, f := range indexed {
			if subset&(1<<i) == 0 {
				continue
			}
			v, ok := r.Get(f.Name())
			if !ok {
				continue
			}
			sb.WriteString(":")
			sb.WriteString(f.Name())
			sb.WriteString("=")
			sb.WriteString(keyValue(v))
		}
		add(sb.String())
	}
	if id := r.ID(); id != nil {
		add(IdentityKey(sc.Name(), id))
	}
	return c.store.Evict(ctx, keys...)
}

// keyValue renders a field value inside a cache key. The rendering is
// deterministic across the integer widths codecs round-trip through.
func keyValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
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
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", x)
	}
}
