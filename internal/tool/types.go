package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Map returns the schema as a plain JSON-compatible map, the shape
// expected by chat-completions style function parameters.
func (s *Schema) Map() map[string]any {
	if s == nil {
		return nil
	}
	m := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.Map()
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		m["items"] = s.Items.Map()
	}
	if len(s.Enum) > 0 {
		m["enum"] = append([]string(nil), s.Enum...)
	}
	return m
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Kind is the closed set of file operations a tool call can map to.
type Kind int

const (
	KindCreate Kind = iota + 1
	KindRead
	KindReplace
	KindAppend
	KindCreateFolder
	KindListFolder
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindRead:
		return "read"
	case KindReplace:
		return "replace"
	case KindAppend:
		return "append"
	case KindCreateFolder:
		return "create_folder"
	case KindListFolder:
		return "list_folder"
	default:
		return "unknown"
	}
}

// IsDirectoryOp reports whether the kind operates on a directory tree.
func (k Kind) IsDirectoryOp() bool {
	return k == KindCreateFolder || k == KindListFolder
}

// Arguments holds the decoded parameters of any catalog tool.
// Optional flags are pointers so "absent" and "false" stay distinct.
type Arguments struct {
	FilePath   string `mapstructure:"file_path"`
	FolderPath string `mapstructure:"folder_path"`
	Content    string `mapstructure:"content"`
	Overwrite  *bool  `mapstructure:"overwrite"`
	Recursive  *bool  `mapstructure:"recursive"`
}

// Path returns whichever path parameter the tool uses.
func (a Arguments) Path() string {
	if a.FilePath != "" {
		return a.FilePath
	}
	return a.FolderPath
}
