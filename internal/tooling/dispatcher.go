package tooling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultCallTimeout bounds a single call when no timeout is configured.
const DefaultCallTimeout = 60 * time.Second

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimeout bounds each call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(ds *Dispatcher) { ds.timeout = d }
}

// WithArgumentValidation validates arguments against the tool schema before
// the handler runs.
func WithArgumentValidation(enabled bool) DispatcherOption {
	return func(ds *Dispatcher) { ds.validate = enabled }
}

// WithLogger sets the call logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(ds *Dispatcher) {
		if l != nil {
			ds.logger = l
		}
	}
}

// Dispatcher resolves tool calls against a Registry. Call never returns an
// error or panics; every failure becomes an error envelope.
type Dispatcher struct {
	registry *Registry
	upstream *Upstream
	timeout  time.Duration
	validate bool
	logger   *slog.Logger
	newID    func() string
}

// NewDispatcher returns a Dispatcher over reg sharing up across calls.
func NewDispatcher(reg *Registry, up *Upstream, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		upstream: up,
		timeout:  DefaultCallTimeout,
		logger:   slog.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the underlying registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// List returns every tool definition in registry order.
func (d *Dispatcher) List() []Definition {
	tools := d.registry.Tools()
	out := make([]Definition, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Definition())
	}
	return out
}

// Call runs the named tool with args and returns its envelope.
func (d *Dispatcher) Call(ctx context.Context, name string, args Args) *Envelope {
	id := d.newID()
	start := time.Now()
	log := d.logger.With("call_id", id, "tool", name)

	tool, ok := d.registry.Lookup(name)
	if !ok {
		log.Warn("tool call failed", "code", CodeUnknownTool)
		return ErrorEnvelope("Unknown tool: " + name)
	}
	if args == nil {
		args = Args{}
	}
	if d.validate {
		if err := d.registry.Validate(name, args); err != nil {
			ierr := InvalidInput(name, err)
			log.Warn("tool call failed", "code", ierr.Code, "error", ierr)
			return ErrorEnvelope(ierr.Error())
		}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	log.Debug("tool call started")
	env, err := d.run(ctx, tool, args)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("tool call failed", "code", CodeOf(err), "error", err, "duration", elapsed)
		return ErrorEnvelope(errorMessage(err))
	}
	log.Info("tool call completed", "duration", elapsed)
	return env
}

type callResult struct {
	env *Envelope
	err error
}

// run executes the handler in its own goroutine so a handler that ignores ctx
// still cannot hold the call past its deadline.
func (d *Dispatcher) run(ctx context.Context, tool Tool, args Args) (*Envelope, error) {
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: &Error{Tool: tool.Name, Code: CodeInternal, Message: fmt.Sprintf("tool %s panicked: %v", tool.Name, r)}}
			}
		}()
		env, err := tool.Handler(ctx, args, d.upstream)
		if err == nil && env == nil {
			err = &Error{Tool: tool.Name, Code: CodeInternal, Message: fmt.Sprintf("tool %s returned no result", tool.Name)}
		}
		done <- callResult{env: env, err: err}
	}()

	select {
	case res := <-done:
		return res.env, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Tool: tool.Name, Code: CodeTimeout, Message: fmt.Sprintf("tool %s timed out", tool.Name), Cause: ctx.Err()}
		}
		return nil, &Error{Tool: tool.Name, Code: CodeInternal, Message: fmt.Sprintf("tool %s canceled", tool.Name), Cause: ctx.Err()}
	}
}

// errorMessage falls back to the error's type name when it has no message.
func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return describe(err)
}
