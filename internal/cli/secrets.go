package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/derekbar90/zenhub-mcp/internal/secrets"
)

// SecretKeys are the names accepted by the secrets subcommands.
var SecretKeys = []string{secrets.KeyZenHub, secrets.KeyGitHub}

func secretStore(key string) (secrets.Manager, error) {
	if !slices.Contains(SecretKeys, key) {
		return nil, fmt.Errorf("unknown secret %q (want one of %s)", key, strings.Join(SecretKeys, ", "))
	}
	return openSecrets()
}

// SetSecret stores value under key in the default store.
func SetSecret(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("empty value for %s", key)
	}
	sm, err := secretStore(key)
	if err != nil {
		return err
	}
	return sm.Set(key, value)
}

// GetSecret returns the stored value for key, masked unless reveal is set.
func GetSecret(key string, reveal bool) (string, error) {
	sm, err := secretStore(key)
	if err != nil {
		return "", err
	}
	v, err := sm.Get(key)
	if err != nil {
		return "", err
	}
	if reveal {
		return v, nil
	}
	return mask(v), nil
}

// DeleteSecret removes key from the default store.
func DeleteSecret(key string) error {
	sm, err := secretStore(key)
	if err != nil {
		return err
	}
	return sm.Delete(key)
}
