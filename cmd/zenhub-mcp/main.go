package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/derekbar90/zenhub-mcp/internal/cli"
	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/gateway"
	"github.com/derekbar90/zenhub-mcp/internal/logging"
	"github.com/derekbar90/zenhub-mcp/internal/mcpserver"
	"github.com/derekbar90/zenhub-mcp/internal/secrets"
	"github.com/derekbar90/zenhub-mcp/internal/signals"
	"github.com/derekbar90/zenhub-mcp/internal/zenhub"
)

// version is set at build time, e.g.:
//
//	go build -ldflags "-X main.version=1.2.0" ./cmd/zenhub-mcp
var version string

// buildMeta holds version and build metadata.
type buildMeta struct {
	Version string
	GoOS    string
	GoArch  string
}

func newBuildMeta(version string) buildMeta {
	if version == "" {
		version = mcpserver.ServerVersion
	}
	return buildMeta{Version: version, GoOS: runtime.GOOS, GoArch: runtime.GOARCH}
}

func (m buildMeta) String() string {
	return fmt.Sprintf("zenhub-mcp %s %s/%s", m.Version, m.GoOS, m.GoArch)
}

// serveFlags are the root command's overrides of the config file.
type serveFlags struct {
	config    string
	transport string
	addr      string
}

func newRootCommand(bm buildMeta) *cobra.Command {
	var flags serveFlags
	root := &cobra.Command{
		Use:   "zenhub-mcp",
		Short: "MCP server for the ZenHub GraphQL API",
		Long: "zenhub-mcp exposes ZenHub issues, epics, sprints, pipelines and workspaces as MCP tools.\n" +
			"It serves over stdio by default; use --transport http for the streamable HTTP transport.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), bm.String())
				return nil
			}
			return runServe(cmd, flags)
		},
	}
	root.Flags().BoolP("version", "V", false, "print version and build metadata")
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file (default $ZENHUB_MCP_CONFIG or zenhub-mcp.json)")
	root.Flags().StringVar(&flags.transport, "transport", "", "transport: stdio or http (overrides server.transport)")
	root.Flags().StringVar(&flags.addr, "addr", "", "listen address for the http transport (overrides server.addr)")

	root.AddCommand(newToolsCommand(), newCheckCommand(&flags), newSecretsCommand())
	return root
}

func newToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			reg, err := zenhub.NewRegistry()
			if err != nil {
				return err
			}
			return cli.WriteTools(cmd.OutOrStdout(), reg, format)
		},
	}
	cmd.Flags().StringP("format", "f", cli.FormatText, "output format: text, json or yaml")
	return cmd
}

func newCheckCommand(flags *serveFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate config and credentials, optionally calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fix, _ := cmd.Flags().GetBool("fix")
			ping, _ := cmd.Flags().GetBool("ping")
			opts := cli.CheckOptions{ConfigPath: flags.config, Fix: fix, Ping: ping}
			if code := cli.RunCheck(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != 0 {
				return exitCodeErr(code)
			}
			return nil
		},
	}
	cmd.Flags().Bool("fix", false, "write a default config file if missing")
	cmd.Flags().Bool("ping", false, "call zenhub_get_viewer to verify the API key")
	return cmd
}

func newSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage credentials in the encrypted store (keys: " + strings.Join(cli.SecretKeys, ", ") + ")",
	}
	set := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store a credential; reads it from stdin when value is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSecretsSet,
	}
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Show a stored credential (masked unless --reveal)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSecretsGet,
	}
	get.Flags().Bool("reveal", false, "print the value in clear")
	del := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.DeleteSecret(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.AddCommand(set, get, del)
	return cmd
}

func runSecretsSet(cmd *cobra.Command, args []string) error {
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		value = line
	}
	if err := cli.SetSecret(args[0], value); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func runSecretsGet(cmd *cobra.Command, args []string) error {
	reveal, _ := cmd.Flags().GetBool("reveal")
	value, err := cli.GetSecret(args[0], reveal)
	if errors.Is(err, secrets.ErrNotFound) {
		return fmt.Errorf("secret %q not found", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// runServe loads the config, builds the app and serves until the client
// disconnects or a shutdown signal arrives.
func runServe(cmd *cobra.Command, flags serveFlags) error {
	cfg, err := cli.LoadConfig(flags.config)
	if err != nil {
		return err
	}
	if flags.transport != "" {
		cfg.Server.Transport = flags.transport
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	logger, err := logging.New(cfg.Infra, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("infra: %w", err)
	}
	app, err := cli.Build(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := serveContext(cmd.Context())
	defer stop()
	logger.Info("zenhub-mcp starting",
		"version", cli.Version,
		"transport", cfg.Server.Transport,
		"endpoint", cfg.ZenHub.Endpoint,
		"tools", app.Dispatcher.Registry().Len(),
		"issueTypes", cfg.GitHub.Token != "")

	switch cfg.Server.Transport {
	case domain.TransportHTTP:
		srv, err := gateway.NewServer(cfg.Server, app.Server.HTTPHandler(), logger)
		if err != nil {
			return err
		}
		err = srv.Run(ctx.Done())
		logger.Info("zenhub-mcp stopped")
		return err
	default:
		err := runStdio(ctx, app.Server)
		logger.Info("zenhub-mcp stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// serveContext and runStdio are replaced in tests.
var (
	serveContext = signals.NotifyContext
	runStdio     = func(ctx context.Context, s *mcpserver.Server) error { return s.RunStdio(ctx) }
)

// exitCodeErr carries an exit code for the process. When returned from a command, runApp exits with that code.
type exitCodeErr int

func (e exitCodeErr) Error() string { return fmt.Sprintf("exit %d", int(e)) }
func (e exitCodeErr) ExitCode() int { return int(e) }

// runApp runs the root command with args and returns the exit code.
func runApp(args []string, stdout, stderr io.Writer) int {
	bm := newBuildMeta(version)
	cli.Version = bm.Version
	root := newRootCommand(bm)
	root.SetArgs(args[1:])
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceErrors = true
	if err := root.ExecuteContext(context.Background()); err != nil {
		var ec interface{ ExitCode() int }
		if errors.As(err, &ec) {
			return ec.ExitCode()
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
