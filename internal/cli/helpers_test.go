package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/derekbar90/zenhub-mcp/internal/secrets"
)

// withEnv replaces getenv with a fixed map for the duration of the test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := getenv
	getenv = func(k string) string { return env[k] }
	t.Cleanup(func() { getenv = orig })
}

// withSecrets points openSecrets at a fresh store under t.TempDir.
func withSecrets(t *testing.T) *secrets.FileStore {
	t.Helper()
	store, err := secrets.OpenWithKey(filepath.Join(t.TempDir(), ".secrets"), secrets.DeriveKey("test"))
	if err != nil {
		t.Fatal(err)
	}
	orig := openSecrets
	openSecrets = func() (secrets.Manager, error) { return store, nil }
	t.Cleanup(func() { openSecrets = orig })
	return store
}

// withoutSecrets makes the store unavailable.
func withoutSecrets(t *testing.T) {
	t.Helper()
	orig := openSecrets
	openSecrets = func() (secrets.Manager, error) { return nil, errors.New("no key source") }
	t.Cleanup(func() { openSecrets = orig })
}
