package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ApplyPermissionsYAML overrides model and field permission masks from a
// YAML document. It is a registration-time operation: the schemas must
// not be frozen yet. Document shape:
//
//	models:
//	  User:
//	    perm: 0o604
//	    fields:
//	      name: 0o604
//	      mobile: "0600"
//
// Mask values may be YAML integers (octal literals recommended) or
// strings, which are always read as octal.
func ApplyPermissionsYAML(data []byte, schemas ...*Schema) error {
	var doc permissionsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("schema: parsing permissions: %w", err)
	}
	byName := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		if s.frozen {
			return fmt.Errorf("schema: model %s already registered", s.name)
		}
		byName[s.name] = s
	}
	for model, decl := range doc.Models {
		s, ok := byName[model]
		if !ok {
			return &UnknownModelError{Name: model}
		}
		if decl.Perm != nil {
			s.mask = decl.Perm.mask
		}
		for field, pv := range decl.Fields {
			f, err := s.Field(field)
			if err != nil {
				return err
			}
			f.setPerm(pv.mask)
		}
	}
	return nil
}

type permissionsDoc struct {
	Models map[string]modelDecl `yaml:"models"`
}

type modelDecl struct {
	Perm   *permValue            `yaml:"perm"`
	Fields map[string]*permValue `yaml:"fields"`
}

type permValue struct {
	mask Mask
}

// UnmarshalYAML accepts integer nodes as-is and string nodes as octal.
func (p *permValue) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		if v < 0 || v > 0o777 {
			return fmt.Errorf("schema: permission %d out of range", v)
		}
		p.mask = Mask(v)
		return nil
	case string:
		s := strings.TrimPrefix(v, "0o")
		n, err := strconv.ParseUint(s, 8, 16)
		if err != nil || n > 0o777 {
			return fmt.Errorf("schema: invalid permission %q", v)
		}
		p.mask = Mask(n)
		return nil
	default:
		return fmt.Errorf("schema: invalid permission value %v", raw)
	}
}
