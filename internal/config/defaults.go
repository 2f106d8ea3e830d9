package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile,
// environment variables and CLI flags, in that order.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider     ProviderConfig     `json:"provider"`
	Orchestrator OrchestratorConfig `json:"orchestrator"`
	Tools        ToolsConfig        `json:"tools"`
	Policy       PolicyConfig       `json:"policy"`
	Session      SessionConfig      `json:"session"`
	Logging      LoggingConfig      `json:"logging"`
}

type ProviderConfig struct {
	// Backend selects the wire protocol: "openai" (chat completions) or "gemini".
	Backend string `json:"backend"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`

	// Retry policy for a single request
	MaxAttempts      int `json:"max_attempts"`       // Default: 3
	AttemptTimeoutMs int `json:"attempt_timeout_ms"` // Default: 120000
	BackoffBaseMs    int `json:"backoff_base_ms"`    // Default: 500
	BackoffMaxMs     int `json:"backoff_max_ms"`     // Default: 8000
}

type OrchestratorConfig struct {
	MaxIterations    int    `json:"max_iterations"`     // Default: 20 model requests per turn
	SystemPromptPath string `json:"system_prompt_path"` // Default: system_prompt.md (relative to workspace)
}

type ToolsConfig struct {
	MaxFileSize      int64 `json:"max_file_size"`      // Default: 5 * 1024 * 1024 (5MB)
	MaxListEntries   int   `json:"max_list_entries"`   // Default: 2000
	MaxParallelCalls int   `json:"max_parallel_calls"` // Default: 4
}

type PolicyConfig struct {
	ConfirmDestructive bool     `json:"confirm_destructive"` // Default: true
	AllowOverwrite     bool     `json:"allow_overwrite"`     // Default: true
	Allow              []string `json:"allow"`               // Tools that never ask
	Deny               []string `json:"deny"`                // Tools that are always refused
}

type SessionConfig struct {
	// File is the YAML session file. Empty disables persistence.
	File string `json:"file"`
}

type LoggingConfig struct {
	Level string `json:"level"` // debug, info, warn, error
	File  string `json:"file"`  // Empty disables file logging
}

// Backends
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend:          BackendOpenAI,
			MaxAttempts:      3,
			AttemptTimeoutMs: 120_000,
			BackoffBaseMs:    500,
			BackoffMaxMs:     8_000,
		},
		Orchestrator: OrchestratorConfig{
			MaxIterations:    20,
			SystemPromptPath: "system_prompt.md",
		},
		Tools: ToolsConfig{
			MaxFileSize:      5 * 1024 * 1024,
			MaxListEntries:   2000,
			MaxParallelCalls: 4,
		},
		Policy: PolicyConfig{
			ConfirmDestructive: true,
			AllowOverwrite:     true,
			Allow:              []string{},
			Deny:               []string{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
