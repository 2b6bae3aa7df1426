// Package schema defines the static model descriptors the middleware
// operates on: field and model declarations, Unix-style permission
// masks, records, and the registry mapping resource names to schemas.
//
// Schemas are built once at startup and frozen by registry construction;
// after that, fields and masks never change.
package schema

import (
	"github.com/go-openapi/inflect"
)

// RoleFunc resolves the role mask that applies to a subject for a given
// record. The returned mask selects which permission triplet(s) govern
// the subject's access, e.g. RoleOwner for the record owner.
type RoleFunc func(r *Record, subject any) Mask

// Schema describes a model: an ordered set of unique fields, a
// model-level permission mask acting as a ceiling over every field, and
// a name used as the cache namespace.
type Schema struct {
	name   string
	table  string
	fields []*Field
	byName map[string]*Field
	mask   Mask
	role   RoleFunc
	frozen bool
}

// IDField is the name of the identity field every schema carries.
const IDField = "id"

// New returns a schema with the given name and fields. An "id" integer
// field is prepended unless one of the given fields already declares it.
// Field names must be unique; duplicates panic since they are a
// programming error caught at startup.
func New(name string, fields ...*Field) *Schema {
	s := &Schema{
		name:   name,
		table:  inflect.Tableize(name),
		byName: make(map[string]*Field, len(fields)+1),
		mask:   DefaultModelMask,
	}
	hasID := false
	for _, f := range fields {
		if f.name == IDField {
			hasID = true
		}
	}
	if !hasID {
		fields = append([]*Field{Int(IDField)}, fields...)
	}
	for _, f := range fields {
		if _, ok := s.byName[f.name]; ok {
			panic("schema: duplicate field " + f.name + " in model " + name)
		}
		f.schema = s
		s.fields = append(s.fields, f)
		s.byName[f.name] = f
	}
	return s
}

// Perm sets the model permission mask. It is a ceiling: no field can
// grant a bit the model mask does not.
func (s *Schema) Perm(m Mask) *Schema {
	s.checkMutable()
	s.mask = m
	return s
}

// Table overrides the storage table name. The default is the tableized
// form of the model name, e.g. "OrderItem" becomes "order_items".
func (s *Schema) Table(t string) *Schema {
	s.checkMutable()
	s.table = t
	return s
}

// Role sets the per-model role resolver. Without one, every subject is
// granted DefaultRole.
func (s *Schema) Role(fn RoleFunc) *Schema {
	s.checkMutable()
	s.role = fn
	return s
}

// Name returns the model name. It doubles as the cache namespace.
func (s *Schema) Name() string { return s.name }

// TableName returns the storage table name.
func (s *Schema) TableName() string { return s.table }

// Mask returns the model permission mask.
func (s *Schema) Mask() Mask { return s.mask }

// Fields returns the fields in declaration order. The returned slice
// must not be modified.
func (s *Schema) Fields() []*Field { return s.fields }

// Field returns the named field, or an *UnknownFieldError.
func (s *Schema) Field(name string) (*Field, error) {
	f, ok := s.byName[name]
	if !ok {
		return nil, &UnknownFieldError{Model: s.name, Name: name}
	}
	return f, nil
}

// Indexed returns the indexed fields in declaration order.
func (s *Schema) Indexed() []*Field {
	var fields []*Field
	for _, f := range s.fields {
		if f.indexed {
			fields = append(fields, f)
		}
	}
	return fields
}

// RoleOf resolves the role mask for the subject on the given record.
func (s *Schema) RoleOf(r *Record, subject any) Mask {
	if s.role == nil {
		return DefaultRole
	}
	return s.role(r, subject)
}

func (s *Schema) checkMutable() {
	if s.frozen {
		panic("schema: model " + s.name + " modified after registration")
	}
}

// OwnerRole returns a role resolver granting the owner triplet to
// subjects whose identity equals the record's value of the given field,
// and DefaultRole to everyone else. The owner reference is a plain
// foreign-key value, not an object link.
func OwnerRole(field string) RoleFunc {
	return func(r *Record, subject any) Mask {
		if v, ok := r.Get(field); ok && looseEqual(v, subject) {
			return RoleOwner | DefaultRole
		}
		return DefaultRole
	}
}

// looseEqual compares identity-like values across the integer widths
// that show up after codec round-trips.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			return ai == bi
		}
		return false
	}
	return a == b
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}
