package tooling

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

type stubIssues struct {
	ref domain.IssueRef
	typ string
	err error
}

func (s *stubIssues) SetIssueType(_ context.Context, ref domain.IssueRef, t string) (*domain.IssueTypeUpdate, error) {
	s.ref, s.typ = ref, t
	if s.err != nil {
		return nil, s.err
	}
	return &domain.IssueTypeUpdate{Ref: ref, Type: t, Issue: json.RawMessage(`{}`)}, nil
}

func TestUpstream_Execute_WhenNoExecutor_ShouldReturnError(t *testing.T) {
	var up *Upstream
	if _, err := up.Execute(context.Background(), viewerDoc, nil); err == nil {
		t.Error("expected error for nil upstream")
	}
}

func TestUpstream_Execute_WhenTransportFails_ShouldClassifyAsUpstream(t *testing.T) {
	cause := errors.New("503 Service Unavailable")
	up := &Upstream{GraphQL: &stubExecutor{err: cause}}
	_, err := up.Execute(context.Background(), viewerDoc, nil)
	if CodeOf(err) != CodeUpstream || !errors.Is(err, cause) {
		t.Errorf("want wrapped upstream error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), GraphQLErrorPrefix) {
		t.Errorf("missing prefix: %q", err.Error())
	}
}

func TestUpstream_SetIssueType(t *testing.T) {
	ref := domain.IssueRef{Owner: "o", Repo: "r", Number: 1}

	var none Upstream
	if none.HasIssues() {
		t.Error("no issues client configured")
	}
	if _, err := none.SetIssueType(context.Background(), ref, "Task"); err == nil {
		t.Error("expected error without issues client")
	}

	issues := &stubIssues{}
	up := &Upstream{Issues: issues}
	if _, err := up.SetIssueType(context.Background(), ref, "Bug"); err != nil {
		t.Fatalf("SetIssueType: %v", err)
	}
	if issues.ref != ref || issues.typ != "Bug" {
		t.Errorf("unexpected delegation %+v %q", issues.ref, issues.typ)
	}

	issues.err = errors.New("403 Forbidden")
	_, err := up.SetIssueType(context.Background(), ref, "Bug")
	if err == nil || err.Error() != "GitHub Error: 403 Forbidden" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestField_ShouldWalkNestedObjects(t *testing.T) {
	data := json.RawMessage(`{"createEpic":{"epic":{"issue":{"id":"X1"}}},"nothing":null}`)
	if got := StringField(data, "createEpic", "epic", "issue", "id"); got != "X1" {
		t.Errorf("want X1, got %q", got)
	}
	if Field(data, "createEpic", "missing") != nil {
		t.Error("missing segment should be nil")
	}
	if Field(data, "nothing", "x") != nil {
		t.Error("null segment should be nil")
	}
	if StringField(data, "createEpic") != "" {
		t.Error("non-string leaf should be empty")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != "" {
		t.Error("nil error has no code")
	}
	if CodeOf(errors.New("x")) != CodeInternal {
		t.Error("unclassified errors are internal")
	}
	if CodeOf(&Error{Code: CodeUpstream, Cause: context.DeadlineExceeded}) != CodeTimeout {
		t.Error("deadline should win")
	}
	p := Partial("createIssue I1", errors.New("GraphQL Error: boom"))
	if CodeOf(p) != CodePartialFailure || !strings.Contains(p.Error(), "createIssue I1 already applied") {
		t.Errorf("unexpected partial error %v", p)
	}
}
