package feature

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable, ordered set of flag definitions.
// It is safe for concurrent use.
type Catalog struct {
	names []Name
	defs  map[Name]Definition
}

// NewCatalog validates and normalizes defs. Order is preserved.
func NewCatalog(defs ...NamedDefinition) (*Catalog, error) {
	c := &Catalog{
		names: make([]Name, 0, len(defs)),
		defs:  make(map[Name]Definition, len(defs)),
	}
	for _, nd := range defs {
		if err := nd.Name.validate(); err != nil {
			return nil, errors.Join(ErrInvalidDefinition, err)
		}
		if _, dup := c.defs[nd.Name]; dup {
			return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("duplicate flag %q", nd.Name))
		}
		def, err := nd.Definition.normalize()
		if err != nil {
			return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("flag %q: %w", nd.Name, err))
		}
		c.names = append(c.names, nd.Name)
		c.defs[nd.Name] = def
	}
	return c, nil
}

// MustNewCatalog works like NewCatalog but panics on invalid definitions.
func MustNewCatalog(defs ...NamedDefinition) *Catalog {
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name Name) bool {
	_, ok := c.defs[name]
	return ok
}

// Lookup returns the normalized definition for name.
func (c *Catalog) Lookup(name Name) (Definition, bool) {
	def, ok := c.defs[name]
	return def, ok
}

// Names returns flag names in catalog order.
func (c *Catalog) Names() []Name {
	return slices.Clone(c.names)
}

// Len returns the number of flags.
func (c *Catalog) Len() int {
	return len(c.names)
}

type rawDefinition struct {
	Status        StatusRecord `yaml:"status"`
	Description   string       `yaml:"description"`
	Data          any          `yaml:"data"`
	DefaultState  *string      `yaml:"defaultState"`
	SupportsQuery *bool        `yaml:"supportsQuery"`
	Storage       string       `yaml:"storage"`
}

func (raw rawDefinition) definition() (Definition, error) {
	def := Definition{
		Status:        raw.Status,
		Description:   raw.Description,
		Data:          raw.Data,
		DefaultState:  StateUnset,
		SupportsQuery: true,
		Storage:       Storage(raw.Storage),
	}
	if raw.DefaultState != nil {
		state, err := ParseState(*raw.DefaultState)
		if err != nil {
			return def, err
		}
		def.DefaultState = state
	}
	if raw.SupportsQuery != nil {
		def.SupportsQuery = *raw.SupportsQuery
	}
	return def, nil
}

// LoadCatalog reads flag definitions from YAML or JSON.
//
// The document is a mapping from flag name to definition, optionally wrapped
// in a top-level "features" key. File order becomes catalog order.
//
//	features:
//	  checkout-v2:
//	    status: {prod: "off", staging: "on"}
//	    storage: cookie
//	  new-search:
//	    status: switchable
//	    defaultState: "off"
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewCatalog()
		}
		return nil, errors.Join(ErrInvalidDefinition, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("line %d: catalog must be a mapping", root.Line))
	}
	if isWrapped(root) {
		root = root.Content[1]
	}

	defs := make([]NamedDefinition, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		var raw rawDefinition
		if err := valNode.Decode(&raw); err != nil {
			return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("flag %q: %w", keyNode.Value, err))
		}
		def, err := raw.definition()
		if err != nil {
			return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("flag %q: %w", keyNode.Value, err))
		}
		defs = append(defs, NamedDefinition{Name: Name(keyNode.Value), Definition: def})
	}
	return NewCatalog(defs...)
}

// isWrapped reports whether root is a single "features" key holding the flag
// mapping. A lone flag named "features" has a status key and is not unwrapped.
func isWrapped(root *yaml.Node) bool {
	if len(root.Content) != 2 || root.Content[0].Value != "features" {
		return false
	}
	inner := root.Content[1]
	if inner.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(inner.Content); i += 2 {
		if inner.Content[i].Value == "status" {
			return false
		}
	}
	return true
}
