package tool

import (
	"fmt"
)

// Spec describes one callable operation.
type Spec struct {
	Kind        Kind
	Declaration Declaration
}

// Name returns the tool name the model calls.
func (s Spec) Name() string {
	return s.Declaration.Name
}

// IsDestructive reports whether executing the call can discard existing
// content: every replace, and create when overwrite was requested.
func (s Spec) IsDestructive(args Arguments) bool {
	switch s.Kind {
	case KindReplace:
		return true
	case KindCreate:
		return args.Overwrite != nil && *args.Overwrite
	default:
		return false
	}
}

func str(desc string) *Schema  { return &Schema{Type: TypeString, Description: desc} }
func flag(desc string) *Schema { return &Schema{Type: TypeBoolean, Description: desc} }

// catalog is the fixed, ordered tool table. It is never mutated.
var catalog = []Spec{
	{
		Kind: KindCreate,
		Declaration: Declaration{
			Name:        "create_file",
			Description: "Create a new file with the given content. Parent folders are created as needed. Fails if the file exists unless overwrite is true.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"file_path": str("Path of the file, relative to the project root."),
					"content":   str("Full text content of the file."),
					"overwrite": flag("Replace the file if it already exists. Defaults to false."),
				},
				Required: []string{"file_path", "content"},
			},
		},
	},
	{
		Kind: KindRead,
		Declaration: Declaration{
			Name:        "read_file",
			Description: "Read the full text content of an existing file.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"file_path": str("Path of the file, relative to the project root."),
				},
				Required: []string{"file_path"},
			},
		},
	},
	{
		Kind: KindReplace,
		Declaration: Declaration{
			Name:        "replace_file_content",
			Description: "Replace the entire content of an existing file. Never creates a file.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"file_path": str("Path of the file, relative to the project root."),
					"content":   str("New full text content of the file."),
				},
				Required: []string{"file_path", "content"},
			},
		},
	},
	{
		Kind: KindAppend,
		Declaration: Declaration{
			Name:        "append_to_file",
			Description: "Append text to the end of an existing file, keeping its current content.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"file_path": str("Path of the file, relative to the project root."),
					"content":   str("Text to append."),
				},
				Required: []string{"file_path", "content"},
			},
		},
	},
	{
		Kind: KindCreateFolder,
		Declaration: Declaration{
			Name:        "create_folder",
			Description: "Create a folder and any missing parent folders.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"folder_path": str("Path of the folder, relative to the project root."),
				},
				Required: []string{"folder_path"},
			},
		},
	},
	{
		Kind: KindListFolder,
		Declaration: Declaration{
			Name:        "get_folder_files",
			Description: "List files and folders inside a folder. Folders end with '/'. Entries ignored by .gitignore are skipped.",
			Parameters: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"folder_path": str("Path of the folder, relative to the project root. Use \".\" for the root."),
					"recursive":   flag("List the whole tree below the folder. Defaults to true."),
				},
				Required: []string{"folder_path"},
			},
		},
	},
}

// Lookup returns the spec registered under name.
func Lookup(name string) (Spec, error) {
	for _, s := range catalog {
		if s.Declaration.Name == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Catalog returns every declaration in catalog order.
func Catalog() []Declaration {
	decls := make([]Declaration, len(catalog))
	for i, s := range catalog {
		decls[i] = s.Declaration
	}
	return decls
}

// Names returns the tool names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Declaration.Name
	}
	return names
}
