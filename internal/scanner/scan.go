package scanner

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/probe"
)

// ProjectInfo is the result of one scan. It is never persisted as is.
type ProjectInfo struct {
	Name        string
	Description string
	TechStack   []string
	Structure   string

	HasPackageJSON  bool
	HasComposerJSON bool
	HasPyproject    bool
	HasCargoToml    bool
	HasGoMod        bool
}

// Scan inspects root and returns its ProjectInfo. Read failures inside the
// tree degrade to "no data"; an unreadable root is E_SCAN_FAILED.
func Scan(ctx context.Context, fsys afero.Fs, root string) (ProjectInfo, error) {
	p := probe.New(fsys, root)

	structure, err := RenderTree(p, StructureDepth)
	if err != nil {
		return ProjectInfo{}, errors.Wrap(errors.EScanFailed, "cannot read project directory "+root, err)
	}

	m := LoadManifests(p)
	stack, err := classify(ctx, p, m.Deps)
	if err != nil {
		return ProjectInfo{}, errors.Wrap(errors.EScanFailed, "scan interrupted", err)
	}

	info := ProjectInfo{
		Name:            projectName(m, p.Root()),
		Description:     m.Description,
		TechStack:       stack,
		Structure:       structure,
		HasPackageJSON:  m.HasPackageJSON,
		HasComposerJSON: m.HasComposerJSON,
		HasPyproject:    m.HasPyproject,
		HasCargoToml:    m.HasCargoToml,
		HasGoMod:        m.HasGoMod,
	}

	logging.Debug().
		Str("root", p.Root()).
		Strs("tech_stack", stack).
		Int("files", len(p.Files())).
		Msg("scanner: scan complete")

	return info, nil
}

func projectName(m Manifests, root string) string {
	if m.Name != "" {
		return m.Name
	}
	if m.GoModule != "" {
		return moduleBase(m.GoModule)
	}
	return filepath.Base(root)
}
