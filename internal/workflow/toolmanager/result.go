package toolmanager

import (
	"encoding/json"

	"github.com/Cyclone1070/codr/internal/provider"
	"github.com/Cyclone1070/codr/internal/tool"
	"github.com/Cyclone1070/codr/internal/tool/file"
)

// Status is the outcome of one tool call.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Error kind names that do not come from the file executor.
const (
	KindToolResolution = "ToolResolutionError"
	KindUserDenied     = "UserDenied"
	KindAborted        = "Aborted"
)

// Result is the outcome of one dispatched tool call.
type Result struct {
	ToolCallID string
	Name       string
	Status     Status
	Kind       string // error kind name, empty on success
	Summary    string // one line for display
	Payload    string // JSON object sent to the model
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// Message returns the tool message answering the call.
func (r Result) Message() provider.Message {
	return provider.ToolMessage(r.ToolCallID, r.Name, r.Payload)
}

type successPayload struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	Path         string   `json:"path"`
	Content      *string  `json:"content,omitempty"`
	BytesWritten int      `json:"bytes_written,omitempty"`
	Entries      []string `json:"entries,omitempty"`
	Truncated    bool     `json:"truncated,omitempty"`
}

type errorPayload struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func success(callID, name string, res *file.Result) Result {
	p := successPayload{
		Status:       "success",
		Message:      res.Summary(),
		Path:         res.Path,
		BytesWritten: res.BytesWritten,
		Entries:      res.Entries,
		Truncated:    res.Truncated,
	}
	if res.Path == "" {
		p.Path = "."
	}
	if res.Kind == tool.KindRead {
		content := res.Content
		p.Content = &content
	}
	return Result{
		ToolCallID: callID,
		Name:       name,
		Status:     StatusOK,
		Summary:    res.Summary(),
		Payload:    marshal(p),
	}
}

func failure(callID, name, kind string, err error) Result {
	return Result{
		ToolCallID: callID,
		Name:       name,
		Status:     StatusError,
		Kind:       kind,
		Summary:    kind + ": " + err.Error(),
		Payload:    marshal(errorPayload{Status: "error", Kind: kind, Message: err.Error()}),
	}
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{"status":"error","kind":"IOError","message":"failed to encode tool result"}`
	}
	return string(b)
}
