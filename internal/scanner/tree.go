package scanner

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/probe"
)

// StructureDepth is the tree depth recorded in a ProjectInfo.
const StructureDepth = 3

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

// RenderTree renders the visible entries under the probe root as an
// indented box-drawing tree. The first line is "<root name>/". Children of
// the root are depth 1 and entries deeper than maxDepth are left out without
// a marker. Unreadable subdirectories render without children; only an
// unreadable root is an error.
func RenderTree(p *probe.Probe, maxDepth int) (string, error) {
	if _, err := p.ListEntries(""); err != nil {
		return "", err
	}

	lines := []string{filepath.Base(p.Root()) + "/"}
	lines = renderDir(p, "", "", 1, maxDepth, lines)
	return strings.Join(lines, "\n"), nil
}

func renderDir(p *probe.Probe, dir, prefix string, depth, maxDepth int, lines []string) []string {
	if depth > maxDepth {
		return lines
	}
	entries, err := p.ListEntries(dir)
	if err != nil {
		logging.Debug().Err(err).Str("dir", dir).Msg("scanner: tree skipping unreadable directory")
		return lines
	}

	for i, e := range entries {
		last := i == len(entries)-1
		connector, cont := branch, pipe
		if last {
			connector, cont = lastBranch, blank
		}

		name := e.Name
		if e.IsDir {
			name += "/"
		}
		lines = append(lines, prefix+connector+name)

		if e.IsDir {
			lines = renderDir(p, path.Join(dir, e.Name), prefix+cont, depth+1, maxDepth, lines)
		}
	}
	return lines
}
