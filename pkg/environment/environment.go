package environment

import (
	"fmt"
	"strings"
)

// Environment represents a deployment environment.
// The set of valid values is closed; use Parse to validate external input.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Staging for staging environment.
	Staging Environment = "staging"
	// Production for production environment.
	Production Environment = "production"
)

// All returns every known environment in promotion order.
func All() []Environment {
	return []Environment{Development, Staging, Production}
}

// Parse converts a raw string into an Environment.
// Short aliases ("dev", "stage", "prod") are accepted; matching is case-insensitive.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Development), "dev":
		return Development, nil
	case string(Staging), "stage":
		return Staging, nil
	case string(Production), "prod":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

// IsValid reports whether e is one of the known environments.
func (e Environment) IsValid() bool {
	switch e {
	case Development, Staging, Production:
		return true
	}
	return false
}

func (e Environment) String() string {
	return string(e)
}
