package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Decode parses the raw JSON argument text of a call to this tool,
// checks it against the parameter schema and decodes it into Arguments.
// Empty text is treated as an empty object.
func (s Spec) Decode(raw string) (Arguments, error) {
	var args Arguments

	params := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return args, fmt.Errorf("%w: %s: arguments are not a JSON object: %v", ErrInvalidArguments, s.Name(), err)
		}
		if params == nil {
			params = map[string]any{}
		}
	}

	if err := validate(params, s.Declaration.Parameters); err != nil {
		return args, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, s.Name(), err)
	}

	if err := mapstructure.Decode(params, &args); err != nil {
		return args, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, s.Name(), err)
	}
	return args, nil
}

// validate checks required fields and primitive types. Unknown fields are
// ignored.
func validate(params map[string]any, schema *Schema) error {
	if schema == nil {
		return nil
	}

	var missing []string
	for _, field := range schema.Required {
		if v, ok := params[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prop, ok := schema.Properties[key]
		if !ok {
			continue
		}
		value := params[key]
		if value == nil {
			// Explicit null on an optional field means "absent".
			delete(params, key)
			continue
		}
		if !hasType(value, prop.Type) {
			return fmt.Errorf("field %s: expected %s but got %s", key, prop.Type, jsonType(value))
		}
	}
	return nil
}

func hasType(value any, expected Type) bool {
	switch expected {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNumber:
		_, ok := value.(float64)
		return ok
	case TypeInteger:
		f, ok := value.(float64)
		return ok && math.Trunc(f) == f
	case TypeArray:
		_, ok := value.([]any)
		return ok
	case TypeObject:
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func jsonType(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
