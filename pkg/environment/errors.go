package environment

import "errors"

// ErrUnknownEnvironment is returned when a string does not name a known environment.
var ErrUnknownEnvironment = errors.New("unknown deployment environment")
