package tooling

import (
	"context"
	"errors"
	"fmt"
)

// Code classifies a failed call for logs. Callers only ever see the message.
type Code string

const (
	CodeUnknownTool    Code = "UNKNOWN_TOOL"
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeUpstream       Code = "UPSTREAM_ERROR"
	CodeTimeout        Code = "TIMEOUT"
	CodePartialFailure Code = "PARTIAL_FAILURE"
	CodeInternal       Code = "INTERNAL"
)

// Error is a classified tool failure.
type Error struct {
	Tool    string
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// InvalidInput reports arguments that could not be decoded or validated.
func InvalidInput(tool string, err error) *Error {
	return &Error{
		Tool:    tool,
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid arguments for %s: %v", tool, err),
		Cause:   err,
	}
}

// Partial reports a composite call whose earlier step was already applied
// upstream when a later step failed. Nothing is rolled back.
func Partial(applied string, err error) *Error {
	return &Error{
		Code:    CodePartialFailure,
		Message: fmt.Sprintf("%v (partial failure: %s already applied)", err, applied),
		Cause:   err,
	}
}

// CodeOf classifies err. Deadline errors win over any wrapping code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	var te *Error
	if errors.As(err, &te) && te.Code != "" {
		return te.Code
	}
	return CodeInternal
}
