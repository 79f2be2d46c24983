package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/derekbar90/zenhub-mcp/internal/config"
	"github.com/derekbar90/zenhub-mcp/internal/logging"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
	"github.com/derekbar90/zenhub-mcp/internal/zenhub"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	ConfigPath string // empty means ZENHUB_MCP_CONFIG or the default path
	Fix        bool   // write a default config when none exists
	Ping       bool   // run zenhub_get_viewer against the live endpoint
}

// viewerTool is the cheapest authenticated call in the catalog.
const viewerTool = zenhub.Namespace + "get_viewer"

// RunCheck validates config and credentials, builds the catalog and optionally
// pings the upstream. Returns the process exit code.
func RunCheck(ctx context.Context, opts CheckOptions, stdout, stderr io.Writer) int {
	note := func(section, message string) {
		fmt.Fprintf(stdout, "  [%s] %s\n", section, message)
	}

	path := config.PathFromEnv(opts.ConfigPath, getenv)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		note("Config", fmt.Sprintf("No config at %s; using defaults.", path))
		if opts.Fix {
			if err := configWriteDefault(path); err != nil {
				fmt.Fprintf(stderr, "  failed to write default config: %v\n", err)
				return 1
			}
			note("Config", fmt.Sprintf("Wrote default config to %s.", path))
		}
	} else {
		note("Config", fmt.Sprintf("Using %s.", path))
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		note("Config", err.Error())
		return 1
	}
	note("ZenHub", fmt.Sprintf("endpoint=%s apiKey=%s", cfg.ZenHub.Endpoint, mask(cfg.ZenHub.APIKey)))
	if cfg.GitHub.Token == "" {
		note("GitHub", "No token; created issues will not get a Bug/Task type. Set GITHUB_PAT to enable.")
	} else {
		note("GitHub", fmt.Sprintf("token=%s", mask(cfg.GitHub.Token)))
	}
	note("Server", fmt.Sprintf("transport=%s", cfg.Server.Transport))

	app, err := Build(cfg, logging.Discard())
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			note("Config", line)
		}
		return 1
	}
	cats := app.Dispatcher.Registry().Categories()
	note("Tools", fmt.Sprintf("%d tools in %d categories.", app.Dispatcher.Registry().Len(), len(cats)))

	if opts.Ping {
		env := app.Dispatcher.Call(ctx, viewerTool, tooling.Args{})
		if env.IsError() {
			note("Ping", env.Text())
			return 1
		}
		note("Ping", "Authenticated as "+viewerName(env))
	}

	fmt.Fprintln(stdout, "  Check complete.")
	return 0
}

// mask keeps the last four characters of a credential.
func mask(s string) string {
	switch {
	case s == "":
		return "(unset)"
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}

func viewerName(env *tooling.Envelope) string {
	data := []byte(env.Text())
	if login := tooling.StringField(data, "viewer", "githubUser", "login"); login != "" {
		return login
	}
	if name := tooling.StringField(data, "viewer", "name"); name != "" {
		return name
	}
	return "(unknown viewer)"
}
