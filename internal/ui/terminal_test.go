package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/codr/internal/policy"
	"github.com/Cyclone1070/codr/internal/workflow"
)

func TestReadInput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("first\nsecond"), &out, false)

	line, err := term.ReadInput(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = term.ReadInput(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = term.ReadInput(context.Background(), "> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out.String(), "> ")
}

func TestReadInput_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	term := NewTerminal(pr, io.Discard, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := term.ReadInput(ctx, "> ")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadPermission(t *testing.T) {
	tests := []struct {
		input string
		want  policy.PermissionDecision
	}{
		{"y\n", policy.DecisionAllow},
		{"YES\n", policy.DecisionAllow},
		{"n\n", policy.DecisionDeny},
		{"\n", policy.DecisionDeny},
		{"a\n", policy.DecisionAllowAlways},
		{"what\nalways\n", policy.DecisionAllowAlways},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out, false)

			got, err := term.ReadPermission(context.Background(), "Allow?", policy.Request{Tool: "replace_file_content", Path: "a.txt", Content: "new body"})

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Allow?")
			assert.Contains(t, out.String(), "new body")
		})
	}
}

func TestReadPermission_EOFDenies(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), io.Discard, false)

	got, err := term.ReadPermission(context.Background(), "Allow?", policy.Request{})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, policy.DecisionDeny, got)
}

func TestContentPreview_Truncates(t *testing.T) {
	content := strings.Repeat("line\n", previewLines+5)

	preview := contentPreview(content)

	assert.Equal(t, previewLines+1, strings.Count(preview, "\n")+1)
	assert.Contains(t, preview, "5 more lines")
}

func TestRender(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out, false)
	events := []workflow.Event{
		workflow.ThinkingEvent{Iteration: 1},
		workflow.ToolStartEvent{CallID: "1", ToolName: "create_file", RequestDisplay: "create_file hello.txt"},
		workflow.ToolEndEvent{CallID: "1", ToolName: "create_file", OK: true, Summary: "created hello.txt (5 bytes)"},
		workflow.ToolEndEvent{CallID: "2", ToolName: "read_file", Summary: "NotFound: missing"},
		workflow.TextEvent{Text: "All done."},
		workflow.DoneEvent{Err: errors.New("boom")},
	}

	for _, ev := range events {
		term.Render(ev)
	}

	s := out.String()
	assert.NotContains(t, s, "thinking", "no indicator when not interactive")
	assert.Contains(t, s, "create_file hello.txt")
	assert.Contains(t, s, "created hello.txt (5 bytes)")
	assert.Contains(t, s, "read_file: NotFound: missing")
	assert.Contains(t, s, "All done.")
	assert.Contains(t, s, "boom")
}

type fakeRenderer struct{ err error }

func (f fakeRenderer) Render(in string) (string, error) { return "<" + in + ">", f.err }

func TestRenderMarkdown(t *testing.T) {
	assert.Equal(t, "<x>", renderMarkdown(fakeRenderer{}, "x"))
	assert.Equal(t, "x", renderMarkdown(fakeRenderer{err: errors.New("bad")}, "x"))
	assert.Equal(t, "x", renderMarkdown(nil, "x"))
}
