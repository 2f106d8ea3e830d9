package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{"empty", []byte{}, true},
		{"ascii", []byte("hello\nworld\n"), true},
		{"multibyte utf8", []byte("héllo, 世界"), true},
		{"nul byte at start", []byte{0x00, 'a'}, false},
		{"nul byte deep in content", append([]byte("text "+string(make([]byte, 9000))), 'x'), false},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd}, false},
		{"truncated multibyte", []byte("ok\xe4\xb8"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsText(tt.input))
			if tt.want {
				assert.Empty(t, Describe(tt.input))
			} else {
				assert.NotEmpty(t, Describe(tt.input))
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line LF", "line1", []string{"line1"}},
		{"multiple lines LF", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"trailing newline LF", "line1\n", []string{"line1"}},
		{"empty string", "", nil},
		{"only newline LF", "\n", []string{""}},
		{"multiple lines CRLF", "line1\r\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"mixed endings", "line1\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"dangling CR kept as content", "line1\rline2", []string{"line1\rline2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLines(tt.input))
		})
	}
}
