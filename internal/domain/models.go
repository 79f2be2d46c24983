package domain

import (
	"encoding/json"
)

// =============================================================================
// Core Configuration
// =============================================================================

// Config is the process-wide configuration, loaded and validated once at startup
// before the tool registry and dispatcher are built.
type Config struct {
	ZenHub ZenHubConfig `json:"zenhub" yaml:"zenhub"`
	GitHub GitHubConfig `json:"github" yaml:"github"`
	Server ServerConfig `json:"server" yaml:"server"`
	Infra  InfraConfig  `json:"infra" yaml:"infra"`
	Retry  RetryConfig  `json:"retry" yaml:"retry"`
}

// ZenHubConfig describes the upstream GraphQL endpoint and how calls against it behave.
type ZenHubConfig struct {
	Endpoint           string `json:"endpoint" yaml:"endpoint"`
	APIKey             string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`                         // Usually supplied via ZENHUB_API_KEY or the secrets store
	CallTimeoutMs      int    `json:"callTimeoutMs" yaml:"callTimeoutMs"`                               // Per tool call; 0 disables the timeout
	ValidateArguments  bool   `json:"validateArguments" yaml:"validateArguments"`                       // Validate call arguments against the tool schema before dispatch
	CustomInstructions string `json:"customInstructions,omitempty" yaml:"customInstructions,omitempty"` // Appended to the server instructions sent to the agent
}

// GitHubConfig holds the optional GitHub credential used to set an issue's type after creation.
type GitHubConfig struct {
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`     // Usually supplied via GITHUB_PAT
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"` // GitHub Enterprise API root; empty means api.github.com
}

// ServerConfig selects how the MCP host is exposed.
type ServerConfig struct {
	Transport string `json:"transport" yaml:"transport"` // "stdio" | "http"
	Addr      string `json:"addr" yaml:"addr"`           // Listen address for the http transport
	AuthToken string `json:"authToken,omitempty" yaml:"authToken,omitempty"`
}

// RetryConfig controls the bounded readiness poll used before dependent upstream calls.
type RetryConfig struct {
	MaxRetries     int `json:"maxRetries" yaml:"maxRetries"`         // Maximum retry attempts (0 = no retries)
	InitialBackoff int `json:"initialBackoff" yaml:"initialBackoff"` // Initial backoff in milliseconds
	MaxBackoff     int `json:"maxBackoff" yaml:"maxBackoff"`         // Maximum backoff in milliseconds
	Multiplier     int `json:"multiplier" yaml:"multiplier"`         // Backoff multiplier (e.g. 2 for exponential doubling)
}

type InfraConfig struct {
	LogFormat string `json:"logFormat" yaml:"logFormat"` // "json" | "text"
	LogLevel  string `json:"logLevel" yaml:"logLevel"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	// DefaultZenHubEndpoint is the public ZenHub GraphQL API.
	DefaultZenHubEndpoint = "https://api.zenhub.com/public/graphql"
)

// =============================================================================
// Upstream Protocol
// =============================================================================

// GraphQLRequest is one GraphQL-over-HTTP operation.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// IssueRef identifies a GitHub issue by repository coordinates.
type IssueRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// IssueTypeUpdate is the outcome of setting a GitHub issue's type; Issue is the raw REST payload.
type IssueTypeUpdate struct {
	Ref   IssueRef        `json:"ref"`
	Type  string          `json:"type"`
	Issue json.RawMessage `json:"issue"`
}
