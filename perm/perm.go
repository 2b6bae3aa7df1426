// Package perm evaluates the Unix-style read/write permission model at
// record and field granularity.
//
// Every field resolves to a 9-bit mask (owner/group/other triplets with
// read=4, write=2). The model mask is a ceiling: the effective mask of
// a field is the AND of its own mask and the model mask. A role mask,
// resolved per (record, subject) by the schema's role resolver, selects
// which triplet applies in context.
package perm

import (
	"slices"

	"github.com/wardenkit/warden/schema"
)

// Effective returns the effective mask of a field under its schema:
// the field mask (with the default substituted when unset) AND the
// model mask.
func Effective(f *schema.Field, sc *schema.Schema) schema.Mask {
	return f.Mask() & sc.Mask()
}

// Readable returns the fields of sc a subject with the given role mask
// may read, in declaration order. It is monotonic in the role mask.
func Readable(sc *schema.Schema, role schema.Mask) []*schema.Field {
	return filterFields(sc, role, schema.ReadBits)
}

// Writable returns the fields of sc a subject with the given role mask
// may write, in declaration order.
func Writable(sc *schema.Schema, role schema.Mask) []*schema.Field {
	return filterFields(sc, role, schema.WriteBits)
}

func filterFields(sc *schema.Schema, role, bits schema.Mask) []*schema.Field {
	var out []*schema.Field
	for _, f := range sc.Fields() {
		if Effective(f, sc)&role&bits != 0 {
			out = append(out, f)
		}
	}
	return out
}

// SerializeOption narrows the fields Serialize returns.
type SerializeOption func(*serializeConfig)

type serializeConfig struct {
	include []string
	exclude []string
}

// Include keeps only the named fields. An empty list keeps everything.
func Include(names ...string) SerializeOption {
	return func(c *serializeConfig) { c.include = names }
}

// Exclude drops the named fields.
func Exclude(names ...string) SerializeOption {
	return func(c *serializeConfig) { c.exclude = names }
}

// Serialize returns the record data the subject may read: the role mask
// is resolved through the schema's role resolver, readable fields are
// computed in declaration order, then intersected with Include and
// reduced by Exclude. Fields without a value are omitted.
func Serialize(r *schema.Record, subject any, opts ...SerializeOption) map[string]any {
	var cfg serializeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sc := r.Schema()
	role := sc.RoleOf(r, subject)
	out := make(map[string]any)
	for _, f := range Readable(sc, role) {
		name := f.Name()
		if len(cfg.include) > 0 && !slices.Contains(cfg.include, name) {
			continue
		}
		if slices.Contains(cfg.exclude, name) {
			continue
		}
		if v, ok := r.Get(name); ok {
			out[name] = v
		}
	}
	return out
}

// ApplyUpdates stages the given values onto the record for the subject.
// Keys are visited in sorted order; the first key the subject cannot
// write fails fast with a *DeniedError. Nothing has been persisted at
// that point, so no rollback is needed: already staged assignments only
// exist on the in-memory record.
func ApplyUpdates(r *schema.Record, values map[string]any, subject any) error {
	sc := r.Schema()
	role := sc.RoleOf(r, subject)
	writable := make(map[string]bool)
	for _, f := range Writable(sc, role) {
		writable[f.Name()] = true
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !writable[k] {
			return &DeniedError{Field: k, Subject: subject}
		}
		if err := r.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}
