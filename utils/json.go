package utils

import (
	json "github.com/bytedance/sonic"
)

// JsonString renders obj as compact JSON for log payloads, "" on marshal
// failure.
func JsonString(obj any) string {
	jsonStr, _ := json.Marshal(obj)
	return string(jsonStr)
}

// JsonIndent renders obj as two-space indented JSON for CLI output.
func JsonIndent(obj any) string {
	jsonStr, _ := json.MarshalIndent(obj, "", "  ")
	return string(jsonStr)
}
