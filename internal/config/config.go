// Package config handles loading, merging, validation and saving of the
// project configuration stored at .tramy/config.yaml.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/version"
)

// DefaultRole is the role made default when none is chosen.
const DefaultRole = "developer"

// Config is the persisted project configuration.
type Config struct {
	Version      string   `yaml:"version"`
	Project      Project  `yaml:"project"`
	DefaultRole  string   `yaml:"defaultRole"`
	EnabledRoles []string `yaml:"enabledRoles"`
	Output       Output   `yaml:"output"`
}

// Project is the scan snapshot recorded at setup time.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	TechStack   []string `yaml:"techStack"`
}

// Output maps each artifact kind to a project-relative directory.
type Output struct {
	Specs     string `yaml:"specs"`
	Docs      string `yaml:"docs"`
	Analysis  string `yaml:"analysis"`
	Reports   string `yaml:"reports"`
	Notebooks string `yaml:"notebooks"`
}

// Dirs returns the output directories in a fixed order.
func (o Output) Dirs() []string {
	return []string{o.Specs, o.Docs, o.Analysis, o.Reports, o.Notebooks}
}

// fileConfig mirrors Config with every field optional, so a stored file can
// be told apart from defaults key by key.
type fileConfig struct {
	Version      *string      `yaml:"version"`
	Project      *fileProject `yaml:"project"`
	DefaultRole  *string      `yaml:"defaultRole"`
	EnabledRoles *[]string    `yaml:"enabledRoles"`
	Output       *fileOutput  `yaml:"output"`
}

type fileProject struct {
	Name        *string   `yaml:"name"`
	Description *string   `yaml:"description"`
	TechStack   *[]string `yaml:"techStack"`
}

type fileOutput struct {
	Specs     *string `yaml:"specs"`
	Docs      *string `yaml:"docs"`
	Analysis  *string `yaml:"analysis"`
	Reports   *string `yaml:"reports"`
	Notebooks *string `yaml:"notebooks"`
}

// Default returns the configuration used when no file exists: every catalog
// role enabled and "developer" as the default role.
func Default() Config {
	return Config{
		Version:      version.SchemaVersion,
		Project:      Project{TechStack: []string{}},
		DefaultRole:  DefaultRole,
		EnabledRoles: roles.IDs(),
		Output: Output{
			Specs:     "specs",
			Docs:      "docs",
			Analysis:  "analysis",
			Reports:   "reports",
			Notebooks: "notebooks",
		},
	}
}

// ForRoles returns the default configuration restricted to ids, reordered to
// catalog order. An empty defaultRole selects the first enabled role.
func ForRoles(ids []string, defaultRole string) Config {
	cfg := Default()
	cfg.EnabledRoles = []string{}
	for _, r := range roles.ByIDs(ids) {
		cfg.EnabledRoles = append(cfg.EnabledRoles, r.ID)
	}
	if defaultRole == "" && len(cfg.EnabledRoles) > 0 {
		defaultRole = cfg.EnabledRoles[0]
	}
	cfg.DefaultRole = defaultRole
	return cfg
}

// IsInitialized reports whether the project at root has a config file.
func IsInitialized(fsys fs.FS, root string) bool {
	ok, err := fs.Exists(fsys, paths.New(root).ConfigFile())
	return err == nil && ok
}

// Load reads the config file under root and merges it over Default().
// A missing file yields Default(). Malformed YAML, unknown keys and merged
// values that fail Validate return E_INVALID_CONFIG.
func Load(fsys fs.FS, root string) (Config, error) {
	path := paths.New(root).ConfigFile()

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.EInvalidConfig, "failed to read "+path, err)
	}

	var doc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		if keys := unknownKeys(err); len(keys) > 0 {
			return Config{}, errors.WrapWithDetails(errors.EInvalidConfig,
				fmt.Sprintf("invalid config.yaml: unknown key %s", strings.Join(keys, ", ")), err,
				map[string]string{errors.HintKey: fmt.Sprintf(
					"run 'tramy setup --yes' to rewrite %s in the %s schema", path, version.SchemaVersion)})
		}
		return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "invalid config.yaml", err,
			map[string]string{errors.HintKey: "fix or delete " + path + " and run 'tramy setup'"})
	}

	cfg := merge(Default(), doc)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	logging.Debug().Str("path", path).Strs("enabled_roles", cfg.EnabledRoles).Msg("config: loaded")
	return cfg, nil
}

var unknownFieldRE = regexp.MustCompile(`field (\S+) not found in type`)

// unknownKeys extracts the keys rejected by KnownFields from a decode error.
func unknownKeys(err error) []string {
	var te *yaml.TypeError
	if !stderrors.As(err, &te) {
		return nil
	}
	var keys []string
	for _, msg := range te.Errors {
		if m := unknownFieldRE.FindStringSubmatch(msg); m != nil {
			keys = append(keys, m[1])
		}
	}
	return keys
}

// merge overlays the keys present in doc onto base. Nested sections merge
// key by key; a present enabledRoles list replaces the default one.
func merge(base Config, doc fileConfig) Config {
	set(&base.Version, doc.Version)
	set(&base.DefaultRole, doc.DefaultRole)
	if doc.EnabledRoles != nil {
		base.EnabledRoles = *doc.EnabledRoles
		if base.EnabledRoles == nil {
			base.EnabledRoles = []string{}
		}
	}
	if p := doc.Project; p != nil {
		set(&base.Project.Name, p.Name)
		set(&base.Project.Description, p.Description)
		if p.TechStack != nil && *p.TechStack != nil {
			base.Project.TechStack = *p.TechStack
		}
	}
	if o := doc.Output; o != nil {
		set(&base.Output.Specs, o.Specs)
		set(&base.Output.Docs, o.Docs)
		set(&base.Output.Analysis, o.Analysis)
		set(&base.Output.Reports, o.Reports)
		set(&base.Output.Notebooks, o.Notebooks)
	}
	return base
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Save validates cfg and writes it atomically to .tramy/config.yaml,
// creating the directory when needed.
func Save(fsys fs.FS, root string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if cfg.Project.TechStack == nil {
		cfg.Project.TechStack = []string{}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to encode config", err)
	}

	layout := paths.New(root)
	if err := fs.EnsureDir(fsys, layout.ConfigDir()); err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to create config directory", err,
			map[string]string{"path": layout.ConfigDir()})
	}
	if err := fs.WriteFileAtomic(fsys, layout.ConfigFile(), data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+layout.ConfigFile(), err,
			map[string]string{"path": layout.ConfigFile()})
	}
	return nil
}

// Marshal encodes cfg as YAML with two-space indentation.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
