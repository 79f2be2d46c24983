package tooling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ContentTypeText is the only content type the server emits.
const ContentTypeText = "text"

// ErrorPrefix starts the text of every error envelope.
const ErrorPrefix = "Error: "

// Content is one item of an Envelope.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the result of every call. Success and failure share this shape
// and always carry exactly one text item.
type Envelope struct {
	Content []Content `json:"content"`
}

// marshalIndent is package-level so tests can inject a failing marshaler.
var marshalIndent = json.MarshalIndent

// TextEnvelope wraps s as the single text item.
func TextEnvelope(s string) *Envelope {
	return &Envelope{Content: []Content{{Type: ContentTypeText, Text: s}}}
}

// ErrorEnvelope returns an envelope whose text is "Error: " + msg.
func ErrorEnvelope(msg string) *Envelope {
	return TextEnvelope(ErrorPrefix + msg)
}

// JSONEnvelope pretty-prints v with two-space indentation. Raw JSON is
// re-indented rather than re-encoded.
func JSONEnvelope(v any) (*Envelope, error) {
	if raw, ok := v.(json.RawMessage); ok {
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, &Error{Code: CodeInternal, Message: fmt.Sprintf("format result: %v", err), Cause: err}
		}
		return TextEnvelope(buf.String()), nil
	}
	b, err := marshalIndent(v, "", "  ")
	if err != nil {
		return nil, &Error{Code: CodeInternal, Message: fmt.Sprintf("format result: %v", err), Cause: err}
	}
	return TextEnvelope(string(b)), nil
}

// Text returns the first item's text, or "" for an empty envelope.
func (e *Envelope) Text() string {
	if e == nil || len(e.Content) == 0 {
		return ""
	}
	return e.Content[0].Text
}

// IsError reports whether the envelope carries an error message.
func (e *Envelope) IsError() bool {
	return strings.HasPrefix(e.Text(), ErrorPrefix)
}
