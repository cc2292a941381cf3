package feature

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/flagkit/pkg/environment"
)

// Source tells which layer produced a flag's state.
type Source string

const (
	SourceQuery     Source = "query"
	SourcePersisted Source = "persisted"
	SourceCatalog   Source = "catalog"
)

// FeatureFlag is the resolved view of a flag.
//
// PreferredState is what the catalog alone yields for the current
// environment; State additionally applies any override. Comparing the two
// tells a caller that a user moved a flag away from its default.
type FeatureFlag struct {
	Name           Name    `json:"name"`
	Status         Status  `json:"status,omitempty"`
	State          State   `json:"state"`
	PreferredState State   `json:"preferred_state"`
	Source         Source  `json:"source"`
	Description    string  `json:"description,omitempty"`
	Data           any     `json:"data,omitempty"`
	SupportsQuery  bool    `json:"supports_query"`
	Storage        Storage `json:"storage"`
}

// Enabled reports whether the flag is on.
func (f FeatureFlag) Enabled() bool {
	return f.State.Enabled()
}

// Overridden reports whether an override moved State away from PreferredState.
func (f FeatureFlag) Overridden() bool {
	return f.State != f.PreferredState
}

// OverrideLookup supplies raw override values for a single resolution.
type OverrideLookup interface {
	// Persisted returns the stored override for name, if any.
	Persisted(name Name) (string, bool)
	// Query returns the request-scoped override for name, if any.
	Query(name Name) (string, bool)
}

// Overrides is a fixed OverrideLookup backed by two maps.
// Nil maps are valid and hold no overrides.
type Overrides struct {
	PersistedValues map[Name]string
	QueryValues     map[Name]string
}

func (o Overrides) Persisted(name Name) (string, bool) {
	v, ok := o.PersistedValues[name]
	return v, ok
}

func (o Overrides) Query(name Name) (string, bool) {
	v, ok := o.QueryValues[name]
	return v, ok
}

// Engine resolves flags against a catalog. It holds no mutable state.
type Engine struct {
	catalog *Catalog
}

// NewEngine returns an engine over catalog.
func NewEngine(catalog *Catalog) (*Engine, error) {
	if catalog == nil {
		return nil, errors.Join(ErrServiceNotInitialized, errors.New("catalog cannot be nil"))
	}
	return &Engine{catalog: catalog}, nil
}

// Resolve computes the view of name in env. It fails only with ErrUnknownFlag;
// malformed overrides fall through to the next precedence level.
func (e *Engine) Resolve(name Name, env environment.Environment, lookup OverrideLookup) (FeatureFlag, error) {
	def, ok := e.catalog.Lookup(name)
	if !ok {
		return FeatureFlag{}, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return ResolveDefinition(name, def, env, lookup), nil
}

// ResolveDefinition resolves a single normalized definition.
//
// Precedence, highest first: query override (when the flag supports it),
// persisted override (when the flag has storage), catalog state.
func ResolveDefinition(name Name, def Definition, env environment.Environment, lookup OverrideLookup) FeatureFlag {
	status := def.Status.For(env)
	preferred := status.State(def.DefaultState)

	state, source := preferred, SourceCatalog
	if s, src, ok := resolveOverride(name, def, lookup); ok {
		state, source = s, src
	}

	return FeatureFlag{
		Name:           name,
		Status:         status,
		State:          state,
		PreferredState: preferred,
		Source:         source,
		Description:    def.Description,
		Data:           def.Data,
		SupportsQuery:  def.SupportsQuery,
		Storage:        def.Storage,
	}
}

func resolveOverride(name Name, def Definition, lookup OverrideLookup) (State, Source, bool) {
	if lookup == nil {
		return "", "", false
	}
	if def.SupportsQuery {
		if raw, ok := lookup.Query(name); ok {
			if state, ok := parseOverride(raw); ok {
				return state, SourceQuery, true
			}
		}
	}
	if def.Storage.AllowsOverride() {
		if raw, ok := lookup.Persisted(name); ok {
			if state, ok := parseOverride(raw); ok {
				return state, SourcePersisted, true
			}
		}
	}
	return "", "", false
}
