package cli

import (
	"log/slog"
	"os"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/derekbar90/zenhub-mcp/internal/config"
	"github.com/derekbar90/zenhub-mcp/internal/secrets"
)

// Function variables for dependency injection in tests.
var (
	getenv             = os.Getenv
	configLoad         = config.LoadOrDefault
	configWriteDefault = config.WriteDefault
	openSecrets        = func() (secrets.Manager, error) { return secrets.Default() }
	newHTTPClient      = cleanhttp.DefaultPooledClient
	// Used before the configured logger exists.
	bootLogger = slog.Default
)
