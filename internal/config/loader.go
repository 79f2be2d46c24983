// Package config loads, overlays and validates domain.Config.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/logging"
	"github.com/derekbar90/zenhub-mcp/internal/retry"
	"github.com/derekbar90/zenhub-mcp/internal/secrets"
)

// DefaultPath is used when neither --config nor ZENHUB_MCP_CONFIG is set.
const DefaultPath = "zenhub-mcp.json"

// Environment variables read by ApplyEnv and PathFromEnv.
const (
	EnvConfigPath         = "ZENHUB_MCP_CONFIG"
	EnvAPIKey             = "ZENHUB_API_KEY"
	EnvGitHubToken        = "GITHUB_PAT"
	EnvCustomInstructions = "ZENHUB_MCP_CUSTOM_INSTRUCTIONS"
	EnvEndpoint           = "ZENHUB_ENDPOINT"
)

// ErrMissingAPIKey is returned by Validate when no ZenHub credential was found.
var ErrMissingAPIKey = errors.New("ZENHUB_API_KEY is required (set the variable, the config file, or run `zenhub-mcp secrets set zenhub`)")

// marshalJSON, marshalYAML and writeFile are replaced in tests to force errors.
var (
	marshalJSON = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	marshalYAML = yaml.Marshal
	writeFile   = os.WriteFile
)

// Default returns the configuration used for anything a file does not set.
func Default() *domain.Config {
	return &domain.Config{
		ZenHub: domain.ZenHubConfig{
			Endpoint:      domain.DefaultZenHubEndpoint,
			CallTimeoutMs: 60000,
		},
		Server: domain.ServerConfig{
			Transport: domain.TransportStdio,
			Addr:      "127.0.0.1:8080",
		},
		Infra: domain.InfraConfig{LogFormat: logging.FormatText, LogLevel: "info"},
		Retry: domain.RetryConfig{
			MaxRetries:     5,
			InitialBackoff: 500,
			MaxBackoff:     8000,
			Multiplier:     2,
		},
	}
}

// PathFromEnv resolves the config path: flag value, then ZENHUB_MCP_CONFIG, then DefaultPath.
func PathFromEnv(flag string, getenv func(string) string) string {
	if flag != "" {
		return flag
	}
	if p := getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func encode(path string, cfg *domain.Config) ([]byte, error) {
	if isYAML(path) {
		return marshalYAML(cfg)
	}
	return marshalJSON(cfg)
}

// WriteDefault writes Default() to path, encoded by extension. Parent
// directories are not created.
func WriteDefault(path string) error {
	data, err := encode(path, Default())
	if err != nil {
		return err
	}
	return writeFile(path, data, 0o644)
}

// Load decodes path on top of Default(). JSON unless the extension is .yaml or .yml.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	c := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("config parse %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*domain.Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Save writes cfg to path, creating parent directories. Credentials are
// stripped; they belong in the environment or the secrets store.
func Save(path string, cfg *domain.Config) error {
	if cfg == nil {
		return errors.New("config save: nil config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config save mkdir: %w", err)
	}
	out := *cfg
	out.ZenHub.APIKey = ""
	out.GitHub.Token = ""
	out.Server.AuthToken = ""
	data, err := encode(path, &out)
	if err != nil {
		return fmt.Errorf("config save marshal: %w", err)
	}
	if err := writeFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config save write: %w", err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment variables onto cfg.
func ApplyEnv(cfg *domain.Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.ZenHub.APIKey, EnvAPIKey)
	set(&cfg.ZenHub.Endpoint, EnvEndpoint)
	set(&cfg.GitHub.Token, EnvGitHubToken)
	if v := getenv(EnvCustomInstructions); v != "" {
		cfg.ZenHub.CustomInstructions = v
	}
}

// ResolveCredentials fills empty credentials from the secrets store. A nil
// store or a missing key leaves the field empty.
func ResolveCredentials(cfg *domain.Config, sm secrets.Manager) error {
	if sm == nil {
		return nil
	}
	fill := func(dst *string, key string) error {
		if *dst != "" {
			return nil
		}
		v, err := sm.Get(key)
		if errors.Is(err, secrets.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("secret %s: %w", key, err)
		}
		*dst = v
		return nil
	}
	return errors.Join(
		fill(&cfg.ZenHub.APIKey, secrets.KeyZenHub),
		fill(&cfg.GitHub.Token, secrets.KeyGitHub),
	)
}

// Validate reports every problem in cfg at once.
func Validate(cfg *domain.Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	var errs []error
	if strings.TrimSpace(cfg.ZenHub.APIKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if err := validateURL("zenhub.endpoint", cfg.ZenHub.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if cfg.GitHub.BaseURL != "" {
		if err := validateURL("github.baseUrl", cfg.GitHub.BaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.ZenHub.CallTimeoutMs < 0 {
		errs = append(errs, errors.New("zenhub.callTimeoutMs must be >= 0"))
	}
	switch cfg.Server.Transport {
	case domain.TransportStdio:
	case domain.TransportHTTP:
		if cfg.Server.Addr == "" {
			errs = append(errs, errors.New("server.addr is required for the http transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("server.transport must be %q or %q, got %q", domain.TransportStdio, domain.TransportHTTP, cfg.Server.Transport))
	}
	if _, err := logging.New(cfg.Infra, nil); err != nil {
		errs = append(errs, fmt.Errorf("infra: %w", err))
	}
	if err := retry.FromDomain(cfg.Retry).Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}
