package feature

import (
	"fmt"
	"strings"
)

// Storage names the medium a flag's user override lives in.
type Storage string

const (
	// StorageNone disallows overrides.
	StorageNone Storage = "none"
	// StorageCookie keeps overrides in session-scoped cookies.
	StorageCookie Storage = "cookie"
	// StorageLocal keeps overrides in a persistent store.
	StorageLocal Storage = "local"
)

// ParseStorage parses a storage medium. The empty string means none;
// "session" and "persistent" are aliases for cookie and local.
func ParseStorage(raw string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(StorageNone):
		return StorageNone, nil
	case string(StorageCookie), "session":
		return StorageCookie, nil
	case string(StorageLocal), "persistent":
		return StorageLocal, nil
	default:
		return "", fmt.Errorf("unknown storage %q", raw)
	}
}

// AllowsOverride reports whether overrides may be persisted in s.
func (s Storage) AllowsOverride() bool {
	return s == StorageCookie || s == StorageLocal
}

func (s Storage) String() string {
	return string(s)
}
