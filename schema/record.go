package schema

// Record is a schema plus a mapping from field name to concrete value,
// including an identity value. Records are value objects: reads go
// through Get, and the only sanctioned mutation paths are Set (used by
// storage engines) and the permission-gated update path in the perm
// package.
type Record struct {
	schema *Schema
	values map[string]any
}

// NewRecord returns an empty record of this schema.
func (s *Schema) NewRecord() *Record {
	return &Record{schema: s, values: make(map[string]any)}
}

// Load returns a record of this schema populated with the given values.
// Unknown names are dropped; the map is copied.
func (s *Schema) Load(values map[string]any) *Record {
	r := s.NewRecord()
	for name, v := range values {
		if _, ok := s.byName[name]; ok {
			r.values[name] = v
		}
	}
	return r
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of the named field and whether it is set.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set assigns the value of the named field, bypassing permission
// checks. It is intended for storage engines materializing rows;
// callers acting on behalf of a subject must go through perm.ApplyUpdates.
func (r *Record) Set(name string, v any) error {
	if _, err := r.schema.Field(name); err != nil {
		return err
	}
	r.values[name] = v
	return nil
}

// ID returns the record's identity value, or nil when unset.
func (r *Record) ID() any {
	return r.values[IDField]
}

// SetID assigns the record's identity value.
func (r *Record) SetID(id any) {
	r.values[IDField] = id
}

// Values returns a copy of the record's field values.
func (r *Record) Values() map[string]any {
	m := make(map[string]any, len(r.values))
	for name, v := range r.values {
		m[name] = v
	}
	return m
}

// Clone returns a deep-enough copy of the record: the value map is
// copied, the schema is shared.
func (r *Record) Clone() *Record {
	return &Record{schema: r.schema, values: r.Values()}
}
