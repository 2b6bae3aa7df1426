package schema

import "fmt"

// Registry is an explicit, statically populated mapping from resource
// name to schema. It is built once at startup; registration freezes
// every schema it holds.
type Registry struct {
	names   []string
	schemas map[string]*Schema
}

// NewRegistry builds a registry from the given schemas and freezes
// them. Duplicate model names are an error.
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if _, ok := r.schemas[s.name]; ok {
			return nil, fmt.Errorf("schema: model %s registered twice", s.name)
		}
		s.frozen = true
		r.names = append(r.names, s.name)
		r.schemas[s.name] = s
	}
	return r, nil
}

// Lookup returns the schema registered under name, or an
// *UnknownModelError.
func (r *Registry) Lookup(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &UnknownModelError{Name: name}
	}
	return s, nil
}

// Schemas returns the registered schemas in registration order.
func (r *Registry) Schemas() []*Schema {
	out := make([]*Schema, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.schemas[name])
	}
	return out
}
