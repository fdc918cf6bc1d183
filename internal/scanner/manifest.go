package scanner

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"golang.org/x/mod/modfile"

	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/probe"
)

// Manifest file names recognized by the scanner.
const (
	PackageJSON      = "package.json"
	ComposerJSON     = "composer.json"
	PyprojectTOML    = "pyproject.toml"
	CargoTOML        = "Cargo.toml"
	GoMod            = "go.mod"
	RequirementsText = "requirements.txt"
)

// Manifests is the merged view of every dependency manifest at the root.
type Manifests struct {
	Name        string
	Description string
	GoModule    string

	// Deps holds every declared dependency name across manifests.
	Deps map[string]struct{}

	HasPackageJSON  bool
	HasComposerJSON bool
	HasPyproject    bool
	HasCargoToml    bool
	HasGoMod        bool
}

type packageManifest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type composerManifest struct {
	Description string            `json:"description"`
	Require     map[string]string `json:"require"`
	RequireDev  map[string]string `json:"require-dev"`
}

// pyprojectManifest covers PEP 621 and Poetry dependency tables.
type pyprojectManifest struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type cargoManifest struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

// LoadManifests reads the manifests present at the probe root. A manifest
// that cannot be read or parsed contributes nothing; it never fails.
func LoadManifests(p *probe.Probe) Manifests {
	m := Manifests{
		Deps:            make(map[string]struct{}),
		HasPackageJSON:  p.Exists(PackageJSON),
		HasComposerJSON: p.Exists(ComposerJSON),
		HasPyproject:    p.Exists(PyprojectTOML),
		HasCargoToml:    p.Exists(CargoTOML),
		HasGoMod:        p.Exists(GoMod),
	}

	if m.HasPackageJSON {
		var pkg packageManifest
		if readJSON(p, PackageJSON, &pkg) {
			m.Name = strings.TrimSpace(pkg.Name)
			m.Description = strings.TrimSpace(pkg.Description)
			addKeys(m.Deps, pkg.Dependencies)
			addKeys(m.Deps, pkg.DevDependencies)
		}
	}

	if m.HasComposerJSON {
		var c composerManifest
		if readJSON(p, ComposerJSON, &c) {
			if m.Description == "" {
				m.Description = strings.TrimSpace(c.Description)
			}
			addKeys(m.Deps, c.Require)
			addKeys(m.Deps, c.RequireDev)
		}
	}

	if m.HasPyproject {
		var py pyprojectManifest
		if readTOML(p, PyprojectTOML, &py) {
			for _, req := range py.Project.Dependencies {
				m.addRequirement(req)
			}
			for _, group := range py.Project.OptionalDependencies {
				for _, req := range group {
					m.addRequirement(req)
				}
			}
			m.addPoetryDeps(py.Tool.Poetry.Dependencies)
			m.addPoetryDeps(py.Tool.Poetry.DevDependencies)
			for _, g := range py.Tool.Poetry.Group {
				m.addPoetryDeps(g.Dependencies)
			}
		}
	}

	if m.HasCargoToml {
		var c cargoManifest
		if readTOML(p, CargoTOML, &c) {
			addKeys(m.Deps, c.Dependencies)
			addKeys(m.Deps, c.DevDependencies)
			addKeys(m.Deps, c.BuildDependencies)
		}
	}

	if m.HasGoMod {
		m.loadGoMod(p)
	}

	if p.Exists(RequirementsText) {
		m.loadRequirements(p)
	}

	return m
}

func addKeys[V any](dst map[string]struct{}, deps map[string]V) {
	for name := range deps {
		dst[name] = struct{}{}
	}
}

// addPoetryDeps adds Poetry dependency names, lower-cased. The interpreter
// constraint "python" is not a dependency.
func (m *Manifests) addPoetryDeps(deps map[string]any) {
	for name := range deps {
		name = strings.ToLower(name)
		if name == "python" {
			continue
		}
		m.Deps[name] = struct{}{}
	}
}

func (m *Manifests) addRequirement(req string) {
	if name := requirementName(req); name != "" {
		m.Deps[name] = struct{}{}
	}
}

func (m *Manifests) loadGoMod(p *probe.Probe) {
	data, err := p.ReadFile(GoMod)
	if err != nil {
		logging.Debug().Err(err).Msg("scanner: go.mod unreadable")
		return
	}
	f, err := modfile.ParseLax(GoMod, data, nil)
	if err != nil {
		logging.Debug().Err(err).Msg("scanner: go.mod malformed")
		return
	}
	if f.Module != nil {
		m.GoModule = f.Module.Mod.Path
	}
	for _, r := range f.Require {
		m.Deps[r.Mod.Path] = struct{}{}
	}
}

func (m *Manifests) loadRequirements(p *probe.Probe) {
	data, err := p.ReadFile(RequirementsText)
	if err != nil {
		logging.Debug().Err(err).Msg("scanner: requirements.txt unreadable")
		return
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m.addRequirement(sc.Text())
	}
}

// requirementName extracts the distribution name from one requirements.txt
// line, lower-cased. Comments, options and blank lines yield "".
func requirementName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return ""
	}
	if i := strings.IndexAny(line, "=<>!~;[ @#"); i >= 0 {
		line = line[:i]
	}
	return strings.ToLower(strings.TrimSpace(line))
}

func readJSON(p *probe.Probe, name string, v any) bool {
	data, err := p.ReadFile(name)
	if err != nil {
		logging.Debug().Err(err).Str("manifest", name).Msg("scanner: manifest unreadable")
		return false
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		logging.Debug().Err(err).Str("manifest", name).Msg("scanner: manifest malformed")
		return false
	}
	return true
}

func readTOML(p *probe.Probe, name string, v any) bool {
	data, err := p.ReadFile(name)
	if err != nil {
		logging.Debug().Err(err).Str("manifest", name).Msg("scanner: manifest unreadable")
		return false
	}
	if err := toml.Unmarshal(data, v); err != nil {
		logging.Debug().Err(err).Str("manifest", name).Msg("scanner: manifest malformed")
		return false
	}
	return true
}

// hasDep reports whether pattern names a declared dependency. Patterns with
// glob meta characters are matched with doublestar against every name.
func hasDep(deps map[string]struct{}, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?[{") {
		_, ok := deps[pattern]
		return ok
	}
	for name := range deps {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// moduleBase returns the last meaningful element of a Go module path,
// skipping a trailing major version suffix.
func moduleBase(mod string) string {
	base := path.Base(mod)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(mod))
	}
	return base
}
