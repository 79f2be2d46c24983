package secrets

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PassphraseEnv overrides the machine-id derived key.
const PassphraseEnv = "ZENHUB_MCP_SECRETS_PASSPHRASE"

const machineIDPath = "/etc/machine-id"

// Hooks for tests.
var (
	keySourceReadFile      = os.ReadFile
	keySourceUserConfigDir = os.UserConfigDir
	keySourceMkdirAll      = os.MkdirAll
)

// DefaultKeySource returns a 32-byte key from ZENHUB_MCP_SECRETS_PASSPHRASE or,
// failing that, the first line of /etc/machine-id.
func DefaultKeySource() ([]byte, error) {
	if s := os.Getenv(PassphraseEnv); s != "" {
		return DeriveKey(s), nil
	}
	b, err := keySourceReadFile(machineIDPath)
	if err != nil {
		return nil, fmt.Errorf("secrets: set %s or ensure %s exists: %w", PassphraseEnv, machineIDPath, err)
	}
	id, _, _ := strings.Cut(strings.TrimLeft(string(b), "\r\n"), "\n")
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("secrets: machine-id is empty")
	}
	return DeriveKey(id), nil
}

// DeriveKey hashes a passphrase into an AES-256 key.
func DeriveKey(passphrase string) []byte {
	const salt = "zenhub-mcp-secrets-v1"
	h := sha256.Sum256([]byte(salt + passphrase))
	return h[:]
}

// Dir returns UserConfigDir/zenhub-mcp, creating it with 0700.
func Dir() (string, error) {
	base, err := keySourceUserConfigDir()
	if err != nil {
		return "", fmt.Errorf("secrets dir: %w", err)
	}
	dir := filepath.Join(base, "zenhub-mcp")
	if err := keySourceMkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("secrets dir mkdir: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the location of the default store.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".secrets"), nil
}
