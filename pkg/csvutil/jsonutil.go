package csvutil

import (
	"encoding/json"
	"fmt"
)

func parseJSONObjectField(v string) (json.RawMessage, error) {
	var anyValue any
	if err := json.Unmarshal([]byte(v), &anyValue); err != nil {
		return nil, err
	}
	if _, ok := anyValue.(map[string]any); !ok {
		return nil, fmt.Errorf("expected json object")
	}
	normalized, err := json.Marshal(anyValue)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}
