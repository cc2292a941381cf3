package feature

import (
	"errors"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/flagkit/pkg/environment"
)

// Status is the configured status of a flag after environment selection.
// The empty Status means no status applies to the current environment.
type Status string

// Defined reports whether a status was selected.
func (s Status) Defined() bool {
	return s != ""
}

// State maps the status to a state. Undefined and "switchable" statuses
// defer to fallback, which the catalog normalizes to StateUnset when a flag
// has no default state.
func (s Status) State(fallback State) State {
	switch classify(string(s)) {
	case tokenOn:
		return StateOn
	case tokenOff:
		return StateOff
	default:
		return fallback
	}
}

// validStatus reports whether raw is a status the resolution table understands.
func validStatus(raw string) bool {
	switch classify(raw) {
	case tokenOn, tokenOff, tokenSwitchable:
		return true
	}
	return false
}

// StatusRecord is the status as configured in the catalog: either one value
// for every environment or a partial per-environment mapping.
type StatusRecord struct {
	scalar  string
	perEnv  map[environment.Environment]string
	defined bool
}

// ScalarStatus returns a record that applies status to every environment.
func ScalarStatus(status string) StatusRecord {
	return StatusRecord{scalar: status, defined: true}
}

// EnvStatus returns a record with per-environment statuses.
// Environments missing from m have no status.
func EnvStatus(m map[environment.Environment]string) StatusRecord {
	return StatusRecord{perEnv: maps.Clone(m), defined: true}
}

// IsScalar reports whether the record applies one status to all environments.
func (r StatusRecord) IsScalar() bool {
	return r.defined && r.perEnv == nil
}

// For selects the status for env.
func (r StatusRecord) For(env environment.Environment) Status {
	if r.perEnv == nil {
		return Status(r.scalar)
	}
	return Status(r.perEnv[env])
}

func (r StatusRecord) validate() error {
	if !r.defined {
		return errors.New("status is required")
	}
	if r.perEnv == nil {
		if !validStatus(r.scalar) {
			return fmt.Errorf("unknown status %q", r.scalar)
		}
		return nil
	}
	for env, status := range r.perEnv {
		if !env.IsValid() {
			return fmt.Errorf("%w: %q", environment.ErrUnknownEnvironment, env)
		}
		if !validStatus(status) {
			return fmt.Errorf("unknown status %q for environment %s", status, env)
		}
	}
	return nil
}

// UnmarshalYAML accepts either a scalar or a mapping of environment to status.
// Environment keys may use the short aliases accepted by environment.Parse.
func (r *StatusRecord) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = ScalarStatus(node.Value)
		return nil
	case yaml.MappingNode:
		m := make(map[environment.Environment]string, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			env, err := environment.Parse(keyNode.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", keyNode.Line, err)
			}
			if valNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: status for %s must be a string", valNode.Line, env)
			}
			if _, dup := m[env]; dup {
				return fmt.Errorf("line %d: duplicate status for %s", keyNode.Line, env)
			}
			m[env] = valNode.Value
		}
		*r = StatusRecord{perEnv: m, defined: true}
		return nil
	default:
		return fmt.Errorf("line %d: status must be a string or a mapping", node.Line)
	}
}
