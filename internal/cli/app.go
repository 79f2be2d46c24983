// Package cli wires configuration, upstream clients and the tool catalog into
// a runnable MCP server, and implements the diagnostic subcommands.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/derekbar90/zenhub-mcp/internal/config"
	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/github"
	"github.com/derekbar90/zenhub-mcp/internal/graphql"
	"github.com/derekbar90/zenhub-mcp/internal/mcpserver"
	"github.com/derekbar90/zenhub-mcp/internal/retry"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
	"github.com/derekbar90/zenhub-mcp/internal/zenhub"
)

// Version is reported to MCP clients and by --version. Set with -ldflags.
var Version = mcpserver.ServerVersion

// App is the assembled process: one dispatcher shared by the MCP host.
type App struct {
	Config     *domain.Config
	Logger     *slog.Logger
	Dispatcher *tooling.Dispatcher
	Server     *mcpserver.Server
}

// LoadConfig reads the config file at path (or the default location), overlays
// the environment and fills credentials from the secrets store. It does not
// validate.
func LoadConfig(path string) (*domain.Config, error) {
	path = config.PathFromEnv(path, getenv)
	cfg, err := configLoad(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, getenv)
	if cfg.ZenHub.APIKey == "" || cfg.GitHub.Token == "" {
		sm, err := openSecrets()
		if err != nil {
			// No usable key source: only environment and file credentials apply.
			bootLogger().Warn("secrets store unavailable; using environment and config file credentials only", "error", err)
			return cfg, nil
		}
		if err := config.ResolveCredentials(cfg, sm); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Build validates cfg and assembles the dispatcher and MCP server. The GitHub
// companion client is only created when a token is configured.
func Build(cfg *domain.Config, logger *slog.Logger) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := newHTTPClient()

	up := &tooling.Upstream{
		GraphQL: graphql.NewClient(cfg.ZenHub.Endpoint, cfg.ZenHub.APIKey,
			graphql.WithHTTPClient(httpClient),
			graphql.WithUserAgent(mcpserver.ServerName+"/"+Version)),
	}
	if cfg.GitHub.Token != "" {
		gh, err := github.NewClient(cfg.GitHub, retry.FromDomain(cfg.Retry), httpClient, github.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		up.Issues = gh
	} else {
		logger.Warn("GITHUB_PAT not set; created issues will not get a type")
	}

	reg, err := zenhub.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("tool registry: %w", err)
	}
	d := tooling.NewDispatcher(reg, up,
		tooling.WithTimeout(time.Duration(cfg.ZenHub.CallTimeoutMs)*time.Millisecond),
		tooling.WithArgumentValidation(cfg.ZenHub.ValidateArguments),
		tooling.WithLogger(logger),
	)
	srv := mcpserver.New(d,
		mcpserver.WithInstructions(mcpserver.Instructions(cfg.ZenHub.CustomInstructions)),
		mcpserver.WithVersion(Version),
		mcpserver.WithLogger(logger),
	)
	return &App{Config: cfg, Logger: logger, Dispatcher: d, Server: srv}, nil
}
