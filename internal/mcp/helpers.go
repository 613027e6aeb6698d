package mcpserver

import (
	"encoding/json"
	"fmt"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// parseValues decodes a {"column": "value"} object. Absent means no values.
func parseValues(data string) (map[string]string, error) {
	values := map[string]string{}
	if data == "" {
		return values, nil
	}
	if err := parseJSON(data, &values); err != nil {
		return nil, fmt.Errorf("parse values JSON: %w", err)
	}
	return values, nil
}

func boolPtr(b bool) *bool { return &b }
