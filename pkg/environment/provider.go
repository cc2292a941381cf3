package environment

import "errors"

// Provider returns the deployment environment of the running process.
type Provider interface {
	Environment() Environment
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func() Environment

// Environment implements Provider.
func (f ProviderFunc) Environment() Environment {
	return f()
}

// Static returns a Provider that always reports env.
func Static(env Environment) Provider {
	return ProviderFunc(func() Environment { return env })
}

// Config holds environment detection settings.
type Config struct {
	Name string `env:"APP_ENV" envDefault:"development"`
}

// FromConfig validates cfg and returns a static Provider for it.
func FromConfig(cfg Config) (Provider, error) {
	env, err := Parse(cfg.Name)
	if err != nil {
		return nil, errors.Join(ErrUnknownEnvironment, err)
	}
	return Static(env), nil
}
