// Package render provides output formatting for tramy commands.
package render

import (
	"encoding/json"
	"io"
)

// JSONSchemaVersion is the version of every --json envelope.
const JSONSchemaVersion = "1.0"

// RoleSummary is one role in role list --json output.
type RoleSummary struct {
	ID          string   `json:"id"`
	Alias       string   `json:"alias"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Default     bool     `json:"default"`
	Commands    []string `json:"commands"`
}

// WorkflowSummary is one workflow in workflow list --json output.
type WorkflowSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Roles       []string `json:"roles"`
	Phases      int      `json:"phases"`
	Enabled     bool     `json:"enabled"`
}

// JSONEnvelope is the stable JSON output format for list commands.
type JSONEnvelope[T any] struct {
	SchemaVersion string `json:"schema_version"`
	Data          []T    `json:"data"`
}

// WriteJSON writes data wrapped in a JSONEnvelope.
func WriteJSON[T any](w io.Writer, data []T) error {
	env := JSONEnvelope[T]{
		SchemaVersion: JSONSchemaVersion,
		Data:          data,
	}
	// Use empty slice if nil for valid JSON array output
	if env.Data == nil {
		env.Data = []T{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
