package config

import (
	"path/filepath"
	"strings"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/roles"
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field string
	Msg   string
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Msg
	}
	return v.Msg
}

// Validate checks the semantic rules of cfg. The first violation is returned
// as E_INVALID_CONFIG wrapping a *ValidationError.
func Validate(cfg Config) error {
	if v := validate(cfg); v != nil {
		return errors.Wrap(errors.EInvalidConfig, "invalid config", v)
	}
	return nil
}

func validate(cfg Config) *ValidationError {
	if strings.TrimSpace(cfg.Version) == "" {
		return &ValidationError{Field: "version", Msg: "must not be empty"}
	}

	if len(cfg.EnabledRoles) == 0 {
		return &ValidationError{Field: "enabledRoles", Msg: "at least one role must be enabled"}
	}
	seen := make(map[string]bool, len(cfg.EnabledRoles))
	for _, id := range cfg.EnabledRoles {
		if seen[id] {
			return &ValidationError{Field: "enabledRoles", Msg: "duplicate role " + id}
		}
		seen[id] = true
		if _, ok := roles.ByID(id); !ok {
			return &ValidationError{Field: "enabledRoles", Msg: "unknown role " + id}
		}
	}

	if cfg.DefaultRole == "" {
		return &ValidationError{Field: "defaultRole", Msg: "must not be empty"}
	}
	if !seen[cfg.DefaultRole] {
		return &ValidationError{Field: "defaultRole", Msg: cfg.DefaultRole + " is not an enabled role"}
	}

	outputs := []struct {
		field, dir string
	}{
		{"output.specs", cfg.Output.Specs},
		{"output.docs", cfg.Output.Docs},
		{"output.analysis", cfg.Output.Analysis},
		{"output.reports", cfg.Output.Reports},
		{"output.notebooks", cfg.Output.Notebooks},
	}
	for _, o := range outputs {
		if strings.TrimSpace(o.dir) == "" {
			return &ValidationError{Field: o.field, Msg: "must not be empty"}
		}
		if filepath.IsAbs(o.dir) || escapesRoot(o.dir) {
			return &ValidationError{Field: o.field, Msg: "must be a path inside the project"}
		}
	}
	return nil
}

func escapesRoot(dir string) bool {
	clean := filepath.ToSlash(filepath.Clean(dir))
	return clean == ".." || strings.HasPrefix(clean, "../")
}

// FirstValidationError extracts the human-readable validation message from
// err, or err's own text when it carries none.
func FirstValidationError(err error) string {
	if err == nil {
		return ""
	}
	if te, ok := errors.AsTramyError(err); ok {
		if v, ok := te.Cause.(*ValidationError); ok {
			return v.Error()
		}
		if te.Cause != nil {
			return te.Msg + ": " + te.Cause.Error()
		}
		return te.Msg
	}
	return err.Error()
}
