package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSystemPrompt is used when no system prompt file exists.
const DefaultSystemPrompt = `You are codr, a coding assistant working inside a single project directory.
You can create, read, replace and append to files, create folders and list folder contents using the provided tools.
All paths are relative to the project root; paths outside it are rejected.
Read a file before replacing it. Prefer small, targeted changes and explain what you changed when you are done.`

// LoadSystemPrompt reads the prompt at path, relative to root when not absolute.
// A missing file yields DefaultSystemPrompt.
func LoadSystemPrompt(root, path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSystemPrompt, nil
		}
		return "", err
	}
	if prompt := strings.TrimSpace(string(data)); prompt != "" {
		return prompt, nil
	}
	return DefaultSystemPrompt, nil
}
