package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/logging"
	"github.com/derekbar90/zenhub-mcp/internal/retry"
)

func noSleep(context.Context, time.Duration) error { return nil }

// newTestClient returns a Client pointed at a test server with instant retries.
func newTestClient(t *testing.T, maxRetries int) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	rc := retry.DefaultConfig()
	rc.MaxRetries = maxRetries
	c, err := NewClient(domain.GitHubConfig{Token: "test-token"}, rc, nil, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	u, _ := url.Parse(server.URL + "/")
	c.gh.BaseURL = u
	c.retrier = retry.New(rc, retry.WithRetryable(readinessRetryable), retry.WithSleep(noSleep))
	return c, mux
}

// =============================================================================
// ParseIssueURL
// =============================================================================

func TestParseIssueURL_WhenValid_ShouldReturnRef(t *testing.T) {
	ref, err := ParseIssueURL("https://github.com/acme/widgets/issues/42")
	if err != nil {
		t.Fatalf("ParseIssueURL: %v", err)
	}
	want := domain.IssueRef{Owner: "acme", Repo: "widgets", Number: 42}
	if ref != want {
		t.Errorf("want %+v, got %+v", want, ref)
	}
}

func TestParseIssueURL_WhenNotAnIssue_ShouldReturnError(t *testing.T) {
	for _, u := range []string{"", "https://github.com/acme/widgets/pull/3", "https://example.com/a/b/issues/x"} {
		if _, err := ParseIssueURL(u); err == nil {
			t.Errorf("ParseIssueURL(%q): expected error", u)
		}
	}
}

// =============================================================================
// NewClient
// =============================================================================

func TestNewClient_WhenTokenEmpty_ShouldReturnError(t *testing.T) {
	if _, err := NewClient(domain.GitHubConfig{}, retry.DefaultConfig(), nil); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewClient_WhenEnterpriseURL_ShouldUseIt(t *testing.T) {
	c, err := NewClient(domain.GitHubConfig{Token: "t", BaseURL: "https://ghe.example.com/"}, retry.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if !strings.HasPrefix(c.gh.BaseURL.String(), "https://ghe.example.com/") {
		t.Errorf("unexpected base url %s", c.gh.BaseURL)
	}
}

// =============================================================================
// SetIssueType
// =============================================================================

func TestClient_SetIssueType_WhenIssueVisible_ShouldPatchType(t *testing.T) {
	c, mux := newTestClient(t, 3)
	var gotBody map[string]string
	var gotAuth string
	mux.HandleFunc("/repos/acme/widgets/issues/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"number":7}`)
		case http.MethodPatch:
			gotAuth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &gotBody)
			fmt.Fprint(w, `{"number":7,"type":{"name":"Bug"}}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	ref := domain.IssueRef{Owner: "acme", Repo: "widgets", Number: 7}
	upd, err := c.SetIssueType(context.Background(), ref, "Bug")
	if err != nil {
		t.Fatalf("SetIssueType: %v", err)
	}
	if gotBody["type"] != "Bug" {
		t.Errorf("want type Bug in patch body, got %v", gotBody)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if upd.Ref != ref || upd.Type != "Bug" {
		t.Errorf("unexpected update %+v", upd)
	}
	if !strings.Contains(string(upd.Issue), `"Bug"`) {
		t.Errorf("raw issue should be returned, got %s", upd.Issue)
	}
}

func TestClient_SetIssueType_WhenNotFoundThenVisible_ShouldPollUntilReady(t *testing.T) {
	c, mux := newTestClient(t, 5)
	gets := 0
	mux.HandleFunc("/repos/acme/widgets/issues/8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			gets++
			if gets < 3 {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
				return
			}
			fmt.Fprint(w, `{"number":8}`)
			return
		}
		fmt.Fprint(w, `{"number":8}`)
	})

	if _, err := c.SetIssueType(context.Background(), domain.IssueRef{Owner: "acme", Repo: "widgets", Number: 8}, "Task"); err != nil {
		t.Fatalf("SetIssueType: %v", err)
	}
	if gets != 3 {
		t.Errorf("want 3 readiness polls, got %d", gets)
	}
}

func TestClient_SetIssueType_WhenNeverVisible_ShouldFailAfterBoundedPolls(t *testing.T) {
	c, mux := newTestClient(t, 2)
	gets, patches := 0, 0
	mux.HandleFunc("/repos/acme/widgets/issues/9", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			patches++
		}
		gets++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	_, err := c.SetIssueType(context.Background(), domain.IssueRef{Owner: "acme", Repo: "widgets", Number: 9}, "Task")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("want wrapped 404, got %v", err)
	}
	if gets != 3 || patches != 0 {
		t.Errorf("want 3 polls and no patch, got gets=%d patches=%d", gets, patches)
	}
}

func TestClient_SetIssueType_WhenPatchRejected_ShouldReturnError(t *testing.T) {
	c, mux := newTestClient(t, 0)
	mux.HandleFunc("/repos/acme/widgets/issues/10", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `{"number":10}`)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Validation Failed"}`)
	})

	_, err := c.SetIssueType(context.Background(), domain.IssueRef{Owner: "acme", Repo: "widgets", Number: 10}, "Epic")
	if err == nil || !strings.Contains(err.Error(), "failed to update issue") {
		t.Errorf("want patch error, got %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/a/b/issues/1"}}
	notFound := &github.ErrorResponse{Response: &http.Response{StatusCode: 404, Request: req}, Message: "Not Found"}
	if !IsNotFound(fmt.Errorf("wrapped: %w", notFound)) {
		t.Error("expected wrapped 404 to be detected")
	}
	if IsNotFound(&github.ErrorResponse{Response: &http.Response{StatusCode: 403, Request: req}}) {
		t.Error("403 is not a 404")
	}
	if IsNotFound(errors.New("404")) {
		t.Error("plain errors are not GitHub 404s")
	}
}
