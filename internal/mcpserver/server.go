// Package mcpserver exposes a tooling.Dispatcher as an MCP server.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

// Identity reported during initialization.
const (
	ServerName    = "zenhub-mcp-server"
	ServerVersion = "1.0.0"
)

const baseInstructions = `You are a helpful assistant for ZenHub tasks.
Be thoughtful and careful with your actions, and know when a larger task should be broken up.
Listen to the user and ask for clarification when needed. Handle every detail you are given with care so that facts are not lost or misrepresented.

Rules:
- When assigning issues, use zenhub_get_workspace_users to list the users of the workspace.
- Use zenhub_get_viewer to get the current user.
- Work with the labels, pipelines, repositories, workspaces and sprints that already exist. Only create new ones when the user asks for it directly.
- Never create an issue, epic or anything else unless the user has confirmed it.
`

const startSteps = `To start any task:
Step 1: use zenhub_get_user_workspaces to get the workspaces you have access to.
Step 2: use zenhub_get_workspace_overview to get an overview of the workspace.
Step 3+: use the tools to complete the task.
`

// Instructions returns the server instructions with the operator's custom
// text embedded.
func Instructions(custom string) string {
	var b strings.Builder
	b.WriteString(baseInstructions)
	b.WriteString("\nUser Provided Instructions:\n")
	if c := strings.TrimSpace(custom); c != "" {
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(startSteps)
	return b.String()
}

// Option configures a Server.
type Option func(*Server)

// WithInstructions overrides the instructions sent to clients.
func WithInstructions(s string) Option {
	return func(srv *Server) { srv.instructions = s }
}

// WithVersion overrides ServerVersion.
func WithVersion(v string) Option {
	return func(srv *Server) {
		if v != "" {
			srv.version = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// Server binds every tool of a dispatcher to one MCP server.
type Server struct {
	dispatcher   *tooling.Dispatcher
	instructions string
	version      string
	logger       *slog.Logger
	mcp          *mcp.Server
}

// New registers every tool of d. Tool results are passed through as text
// content; failures are reported in the text, never as protocol errors.
func New(d *tooling.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher:   d,
		instructions: Instructions(""),
		version:      ServerVersion,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: ServerName, Version: s.version},
		&mcp.ServerOptions{Instructions: s.instructions},
	)
	for _, def := range d.List() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, s.handle)
	}
	s.mcp.AddReceivingMiddleware(s.unknownTools)
	s.logger.Debug("mcp server ready", "tools", len(d.List()))
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Instructions returns the instructions sent to clients.
func (s *Server) Instructions() string { return s.instructions }

// RunStdio serves one session over stdin/stdout until ctx is done or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

func (s *Server) handle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	args, err := decodeArguments(req.Params.Arguments)
	if err != nil {
		return toResult(tooling.ErrorEnvelope(tooling.InvalidInput(name, err).Error())), nil
	}
	return toResult(s.dispatcher.Call(ctx, name, args)), nil
}

// unknownTools answers tools/call for names the SDK never registered, so the
// dispatcher reports them in-band instead of the SDK failing the request.
func (s *Server) unknownTools(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		call, ok := req.(*mcp.CallToolRequest)
		if !ok || method != "tools/call" || call.Params == nil {
			return next(ctx, method, req)
		}
		if _, known := s.dispatcher.Registry().Lookup(call.Params.Name); known {
			return next(ctx, method, req)
		}
		return s.handle(ctx, call)
	}
}

func decodeArguments(raw json.RawMessage) (tooling.Args, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return tooling.Args{}, nil
	}
	var args tooling.Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// toResult copies the envelope's text items into an MCP result.
func toResult(env *tooling.Envelope) *mcp.CallToolResult {
	res := &mcp.CallToolResult{Content: make([]mcp.Content, 0, len(env.Content))}
	for _, c := range env.Content {
		res.Content = append(res.Content, &mcp.TextContent{Text: c.Text})
	}
	return res
}
