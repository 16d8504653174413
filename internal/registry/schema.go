package registry

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"librahub/internal/domain"
)

const toolListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "icon", "description", "path", "isDefault"],
    "properties": {
      "id": { "type": "string", "minLength": 1 },
      "name": { "type": "string" },
      "icon": { "type": "string" },
      "description": { "type": "string" },
      "path": { "type": "string" },
      "isDefault": { "type": "boolean" },
      "contentUrl": { "type": "string" },
      "content": { "type": "string" },
      "dateAdded": { "type": "string" },
      "dateUpdated": { "type": "string" }
    },
    "additionalProperties": true
  }
}`

var resolvedToolListSchema = mustResolveSchema(toolListSchema)

func mustResolveSchema(raw string) *jsonschema.Resolved {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		panic(fmt.Sprintf("registry: parse schema: %v", err))
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("registry: resolve schema: %v", err))
	}
	return resolved
}

// decodeTools parses and validates a persisted registry value.
// Any failure is reported as ErrCorruptRegistry.
func decodeTools(raw string) ([]domain.Tool, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptRegistry, err)
	}
	if err := resolvedToolListSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptRegistry, err)
	}

	var tools []domain.Tool
	if err := json.Unmarshal([]byte(raw), &tools); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptRegistry, err)
	}
	if err := checkTools(tools); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptRegistry, err)
	}
	return tools, nil
}

func checkTools(tools []domain.Tool) error {
	seen := make(map[string]struct{}, len(tools))
	for i, tool := range tools {
		if tool.ID == "" {
			return fmt.Errorf("tool %d: empty id", i)
		}
		if _, ok := seen[tool.ID]; ok {
			return fmt.Errorf("tool %d: duplicate id %q", i, tool.ID)
		}
		seen[tool.ID] = struct{}{}
	}
	return nil
}

func encodeTools(tools []domain.Tool) (string, error) {
	if tools == nil {
		tools = []domain.Tool{}
	}
	data, err := json.Marshal(tools)
	if err != nil {
		return "", fmt.Errorf("encode registry: %w", err)
	}
	return string(data), nil
}
