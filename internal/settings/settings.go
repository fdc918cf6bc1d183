// Package settings merges tramy's prompt hook into the assistant's
// settings.json without disturbing anything else in the file.
package settings

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/jsonc"
)

// HookEvent is the hooks key tramy owns.
const HookEvent = "UserPromptSubmit"

// HookCommand feeds the project context into every prompt.
const HookCommand = `cat CLAUDE.md 2>/dev/null || echo "Run: tramy setup"`

// Hook returns a fresh copy of the UserPromptSubmit hook list.
func Hook() []any {
	return []any{
		map[string]any{
			"matcher": "*",
			"hooks": []any{
				map[string]any{
					"type":    "command",
					"command": HookCommand,
				},
			},
		},
	}
}

// Merge decodes existing settings and adds the tramy entry to
// hooks.UserPromptSubmit unless an entry already runs HookCommand. Existing
// entries, other hook events and every other key are preserved. Empty input,
// input that does not parse and a non-object top level start from an empty
// object. Comments and trailing commas are tolerated.
func Merge(existing []byte) map[string]any {
	out := decode(existing)

	hooks, ok := out["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
	}
	entries, _ := hooks[HookEvent].([]any)
	if !containsHook(entries) {
		entries = append(entries, Hook()...)
	}
	hooks[HookEvent] = entries
	out["hooks"] = hooks
	return out
}

func decode(data []byte) map[string]any {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// HasHook reports whether data already carries the tramy hook command under
// hooks.UserPromptSubmit.
func HasHook(data []byte) bool {
	hooks, ok := decode(data)["hooks"].(map[string]any)
	if !ok {
		return false
	}
	entries, _ := hooks[HookEvent].([]any)
	return containsHook(entries)
}

func containsHook(entries []any) bool {
	for _, e := range entries {
		em, ok := e.(map[string]any)
		if !ok {
			continue
		}
		inner, _ := em["hooks"].([]any)
		for _, h := range inner {
			hm, ok := h.(map[string]any)
			if ok && hm["command"] == HookCommand {
				return true
			}
		}
	}
	return false
}

// Encode renders settings with two-space indentation and a trailing newline.
// HTML characters are not escaped so the hook command stays readable.
func Encode(settings map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
