// Package theme persists the light/dark preference of the hub.
package theme

import (
	"fmt"

	"librahub/internal/domain"
)

const (
	Light = "light"
	Dark  = "dark"
)

// KV is the store slice the preference lives in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Get returns the stored theme, defaulting to Light.
func Get(kv KV) (string, error) {
	value, ok, err := kv.Get(domain.ThemeKey)
	if err != nil {
		return Light, domain.Wrap(domain.CodeUnavailable, "get theme", err)
	}
	if !ok || !valid(value) {
		return Light, nil
	}
	return value, nil
}

func Set(kv KV, value string) error {
	if !valid(value) {
		return domain.E(domain.CodeInvalidArgument, "set theme", fmt.Sprintf("unknown theme %q", value), domain.ErrInvalidRequest)
	}
	if err := kv.Set(domain.ThemeKey, value); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "set theme", err)
	}
	return nil
}

// Toggle flips between light and dark and returns the new value.
func Toggle(kv KV) (string, error) {
	current, err := Get(kv)
	if err != nil {
		return current, err
	}
	next := Dark
	if current == Dark {
		next = Light
	}
	if err := Set(kv, next); err != nil {
		return current, err
	}
	return next, nil
}

func valid(value string) bool {
	return value == Light || value == Dark
}
