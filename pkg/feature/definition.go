package feature

import (
	"errors"
	"fmt"
)

// Name identifies a flag in the catalog.
type Name string

func (n Name) String() string {
	return string(n)
}

func (n Name) validate() error {
	if n == "" {
		return errors.New("flag name cannot be empty")
	}
	for _, r := range n {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("flag name %q contains invalid character %q", n, r)
		}
	}
	return nil
}

// Definition is a flag's static catalog record.
// Definitions held by a Catalog are normalized: DefaultState and Storage are
// always set, so resolution never checks whether a field was present.
type Definition struct {
	Status        StatusRecord
	Description   string
	Data          any
	DefaultState  State
	SupportsQuery bool
	Storage       Storage
}

func (d Definition) normalize() (Definition, error) {
	if err := d.Status.validate(); err != nil {
		return d, err
	}
	if d.DefaultState == "" {
		d.DefaultState = StateUnset
	}
	if !d.DefaultState.IsValid() {
		return d, fmt.Errorf("%w: default state %q", ErrInvalidState, d.DefaultState)
	}
	storage, err := ParseStorage(string(d.Storage))
	if err != nil {
		return d, err
	}
	d.Storage = storage
	return d, nil
}

// NamedDefinition pairs a definition with its flag name.
type NamedDefinition struct {
	Name       Name
	Definition Definition
}

// DefinitionOption configures a definition built by Define.
type DefinitionOption func(*Definition)

// WithDescription sets the human-readable description.
func WithDescription(text string) DefinitionOption {
	return func(d *Definition) { d.Description = text }
}

// WithData attaches an opaque payload returned unchanged on every resolution.
func WithData(data any) DefinitionOption {
	return func(d *Definition) { d.Data = data }
}

// WithDefaultState sets the state used when no status applies.
func WithDefaultState(state State) DefinitionOption {
	return func(d *Definition) { d.DefaultState = state }
}

// WithoutQueryOverride makes the flag ignore query-parameter overrides.
func WithoutQueryOverride() DefinitionOption {
	return func(d *Definition) { d.SupportsQuery = false }
}

// WithStorage sets the medium user overrides are kept in.
func WithStorage(storage Storage) DefinitionOption {
	return func(d *Definition) { d.Storage = storage }
}

// Define builds a definition in code. Query overrides are supported and
// storage is none unless options say otherwise.
func Define(name Name, status StatusRecord, opts ...DefinitionOption) NamedDefinition {
	def := Definition{
		Status:        status,
		DefaultState:  StateUnset,
		SupportsQuery: true,
		Storage:       StorageNone,
	}
	for _, opt := range opts {
		opt(&def)
	}
	return NamedDefinition{Name: name, Definition: def}
}
