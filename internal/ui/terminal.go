// Package ui is the line-oriented terminal front end.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/Cyclone1070/codr/internal/policy"
	"github.com/Cyclone1070/codr/internal/workflow"
)

// previewLines bounds the content preview shown with a permission prompt.
const previewLines = 12

// Terminal reads user input and writes progress and answers.
// Markdown rendering is used only when output is a terminal.
type Terminal struct {
	lines       chan lineResult
	readOnce    sync.Once
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	markdown    markdownRenderer

	mu sync.Mutex // serialises writes to out
}

type lineResult struct {
	line string
	err  error
}

// NewTerminal creates a Terminal over arbitrary streams. Set interactive to
// enable markdown rendering and the thinking indicator.
func NewTerminal(in io.Reader, out io.Writer, interactive bool) *Terminal {
	t := &Terminal{
		lines:       make(chan lineResult),
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
	if interactive {
		t.markdown = newMarkdownRenderer(80)
	}
	return t
}

// Stdio creates a Terminal on the process's standard streams.
func Stdio() *Terminal {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	t := NewTerminal(os.Stdin, os.Stdout, interactive)
	if interactive {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			t.markdown = newMarkdownRenderer(min(width, 120))
		}
	}
	return t
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readLine returns the next input line. A single reader goroutine feeds all
// calls so an abandoned read is delivered to the next caller.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.readOnce.Do(func() {
		go func() {
			for {
				line, err := t.in.ReadString('\n')
				if line != "" || err == nil {
					t.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
				}
				if err != nil {
					t.lines <- lineResult{err: err}
					close(t.lines)
					return
				}
			}
		}()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

// ReadInput prompts the user for general text input.
func (t *Terminal) ReadInput(ctx context.Context, prompt string) (string, error) {
	t.write(PromptStyle.Render(prompt))
	return t.readLine(ctx)
}

// ReadPermission prompts the user for a yes/no/always permission decision.
func (t *Terminal) ReadPermission(ctx context.Context, prompt string, req policy.Request) (policy.PermissionDecision, error) {
	var sb strings.Builder
	sb.WriteString("\n" + PromptStyle.Render(prompt) + "\n")
	if preview := contentPreview(req.Content); preview != "" {
		sb.WriteString(PreviewStyle.Render(preview) + "\n")
	}
	t.write(sb.String())

	for {
		t.write(PromptStyle.Render("[y]es / [n]o / [a]lways: "))
		line, err := t.readLine(ctx)
		if err != nil {
			return policy.DecisionDeny, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return policy.DecisionAllow, nil
		case "n", "no", "":
			return policy.DecisionDeny, nil
		case "a", "always":
			return policy.DecisionAllowAlways, nil
		}
	}
}

func contentPreview(content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) > previewLines {
		more := len(lines) - previewLines
		lines = append(lines[:previewLines], DimStyle.Render(fmt.Sprintf("... %d more lines", more)))
	}
	return strings.Join(lines, "\n")
}

// WriteMessage displays the agent's text, as markdown when interactive.
func (t *Terminal) WriteMessage(content string) {
	if t.interactive {
		t.write(renderMarkdown(t.markdown, content))
		return
	}
	t.write(content + "\n")
}

// WriteError displays a terminal failure.
func (t *Terminal) WriteError(err error) {
	t.write(StatusErrorStyle.Render("✘ "+err.Error()) + "\n")
}

// WriteStatus displays a dim one-line status.
func (t *Terminal) WriteStatus(message string) {
	t.write(DimStyle.Render(message) + "\n")
}

// Render displays a single workflow event.
func (t *Terminal) Render(ev workflow.Event) {
	switch e := ev.(type) {
	case workflow.ThinkingEvent:
		if t.interactive {
			t.write(StatusThinkingStyle.Render("… thinking") + "\n")
		}
	case workflow.TextEvent:
		t.WriteMessage(e.Text)
	case workflow.ToolStartEvent:
		t.write(ToolStyle.Render("→ "+e.RequestDisplay) + "\n")
	case workflow.ToolEndEvent:
		if e.OK {
			t.write(StatusDoneStyle.Render("✔ "+e.Summary) + "\n")
		} else {
			t.write(StatusErrorStyle.Render("✘ "+e.ToolName+": "+e.Summary) + "\n")
		}
	case workflow.DoneEvent:
		if e.Err != nil {
			t.WriteError(e.Err)
		}
	}
}

func (t *Terminal) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}
