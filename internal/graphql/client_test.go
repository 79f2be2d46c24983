package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

func TestNewClient_ShouldUsePooledClientAndEndpoint(t *testing.T) {
	c := NewClient("https://example.test/graphql", "key")
	if c.Endpoint() != "https://example.test/graphql" {
		t.Errorf("unexpected endpoint %q", c.Endpoint())
	}
	if c.httpClient == nil {
		t.Error("expected a default http client")
	}
}

func TestClient_Execute_WhenSuccess_ShouldSendHeadersAndReturnData(t *testing.T) {
	var gotAuth, gotCT, gotUA string
	var gotBody domain.GraphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("want POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"viewer":{"id":"u1"}}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "zh-key", WithHTTPClient(server.Client()), WithUserAgent("zenhub-mcp/test"))
	data, err := c.Execute(context.Background(), domain.GraphQLRequest{
		Query:         "query getViewer { viewer { id } }",
		OperationName: "getViewer",
		Variables:     map[string]any{"a": "b"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(data) != `{"viewer":{"id":"u1"}}` {
		t.Errorf("unexpected data %s", data)
	}
	if gotAuth != "Bearer zh-key" {
		t.Errorf("want bearer header, got %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Errorf("want json content type, got %q", gotCT)
	}
	if gotUA != "zenhub-mcp/test" {
		t.Errorf("want user agent, got %q", gotUA)
	}
	if gotBody.OperationName != "getViewer" || gotBody.Variables["a"] != "b" {
		t.Errorf("unexpected request body %+v", gotBody)
	}
}

func TestClient_Execute_WhenNon2xx_ShouldReturnStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad token"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "bad", WithHTTPClient(server.Client()))
	_, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ viewer { id } }"})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("want *StatusError, got %T %v", err, err)
	}
	if se.StatusCode != 401 {
		t.Errorf("want 401, got %d", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "bad token") {
		t.Errorf("error should carry status and body, got %q", err.Error())
	}
}

func TestClient_Execute_WhenGraphQLErrors_ShouldJoinMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Issue not found"},{"message":"Access denied","path":["issue"]}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", WithHTTPClient(server.Client()))
	_, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ x }"})

	var gerr Errors
	if !errors.As(err, &gerr) {
		t.Fatalf("want Errors, got %T %v", err, err)
	}
	if len(gerr) != 2 {
		t.Errorf("want 2 errors, got %d", len(gerr))
	}
	if err.Error() != "Issue not found; Access denied" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestClient_Execute_WhenErrorsWithPartialData_ShouldFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"a":1},"errors":[{"message":"partial"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", WithHTTPClient(server.Client()))
	if _, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ a }"}); err == nil {
		t.Error("expected error when errors array is non-empty")
	}
}

func TestClient_Execute_WhenDataMissing_ShouldReturnNull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", WithHTTPClient(server.Client()))
	data, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ a }"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("want null, got %s", data)
	}
}

func TestClient_Execute_WhenInvalidJSON_ShouldReturnDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", WithHTTPClient(server.Client()))
	_, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ a }"})
	if err == nil || !strings.Contains(err.Error(), "graphql decode") {
		t.Errorf("want decode error, got %v", err)
	}
}

func TestClient_Execute_WhenContextCanceled_ShouldReturnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient("http://127.0.0.1:1", "k")
	if _, err := c.Execute(ctx, domain.GraphQLRequest{Query: "{ a }"}); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestClient_Execute_WhenMarshalFails_ShouldReturnError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "k")
	c.marshalFunc = func(any) ([]byte, error) { return nil, errors.New("boom") }
	_, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ a }"})
	if err == nil || !strings.Contains(err.Error(), "graphql marshal") {
		t.Errorf("want marshal error, got %v", err)
	}
}

func TestClient_Execute_WhenUnreachable_ShouldReturnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(url, "k")
	_, err := c.Execute(context.Background(), domain.GraphQLRequest{Query: "{ a }"})
	if err == nil || !strings.Contains(err.Error(), "graphql do") {
		t.Errorf("want transport error, got %v", err)
	}
}

func TestStatusError_WhenBodyTooLong_ShouldTruncate(t *testing.T) {
	resp := &http.Response{StatusCode: 502, Status: "502 Bad Gateway"}
	se := newStatusError(resp, []byte(strings.Repeat("x", maxErrorBody+10)))
	if len(se.Body) != maxErrorBody+3 {
		t.Errorf("want truncated body, got length %d", len(se.Body))
	}
}

func TestErrors_WhenNoMessages_ShouldDescribeFailure(t *testing.T) {
	if got := (Errors{{}}).Error(); got == "" {
		t.Error("expected non-empty message")
	}
}
