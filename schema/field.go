package schema

// A Type is the storage type tag of a field.
type Type int

// Supported storage types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
	TypeBytes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeBytes:   "bytes",
}

func (t Type) String() string {
	if t < TypeInvalid || int(t) >= len(typeNames) {
		return typeNames[TypeInvalid]
	}
	return typeNames[t]
}

// Field is a single column descriptor of a schema. Fields are created
// with the fluent builders (String, Int, ...) and become immutable once
// their schema is registered.
type Field struct {
	name    string
	typ     Type
	indexed bool
	perm    Mask
	permSet bool
	comment string
	schema  *Schema
}

// String returns a new string field with the given name.
func String(name string) *Field { return &Field{name: name, typ: TypeString} }

// Int returns a new integer field with the given name.
func Int(name string) *Field { return &Field{name: name, typ: TypeInt} }

// Float returns a new float field with the given name.
func Float(name string) *Field { return &Field{name: name, typ: TypeFloat} }

// Bool returns a new boolean field with the given name.
func Bool(name string) *Field { return &Field{name: name, typ: TypeBool} }

// Time returns a new time field with the given name.
func Time(name string) *Field { return &Field{name: name, typ: TypeTime} }

// Bytes returns a new binary field with the given name.
func Bytes(name string) *Field { return &Field{name: name, typ: TypeBytes} }

// Index marks the field as indexed. Indexed fields participate in cache
// key derivation and invalidation fan-out.
func (f *Field) Index() *Field {
	f.checkMutable()
	f.indexed = true
	return f
}

// Perm sets the field permission mask. Fields without an explicit mask
// fall back to DefaultFieldMask.
func (f *Field) Perm(m Mask) *Field {
	f.checkMutable()
	f.perm = m
	f.permSet = true
	return f
}

// Comment sets a free-form description of the field.
func (f *Field) Comment(c string) *Field {
	f.checkMutable()
	f.comment = c
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Type returns the storage type tag.
func (f *Field) Type() Type { return f.typ }

// Indexed reports whether the field participates in cache keys.
func (f *Field) Indexed() bool { return f.indexed }

// Mask returns the resolved field permission: the declared mask, or
// DefaultFieldMask when none was declared.
func (f *Field) Mask() Mask {
	if f.permSet {
		return f.perm
	}
	return DefaultFieldMask
}

func (f *Field) checkMutable() {
	if f.schema != nil && f.schema.frozen {
		panic("schema: field " + f.name + " modified after registration")
	}
}

// setPerm is the registration-time hook used by the YAML loader.
func (f *Field) setPerm(m Mask) {
	f.perm = m
	f.permSet = true
}
