package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the database, e.g. "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connection procedure.

	OverrideKeyPrefix string        `env:"REDIS_OVERRIDE_PREFIX" envDefault:"flagkit:override:"` // OverrideKeyPrefix namespaces feature override keys.
	OverrideTTL       time.Duration `env:"REDIS_OVERRIDE_TTL" envDefault:"0"`                    // OverrideTTL expires overrides after the given duration; 0 keeps them forever.
}
