// Package probe answers read-only questions about a project tree: does a
// file exist, what does a directory contain, which files match a glob.
//
// A Probe never fails a scan. Unreadable directories, broken symlinks and
// bad patterns are logged at debug level and read as "no match".
package probe

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/tramy-dev/tramy/internal/logging"
)

// DefaultMaxDepth bounds globbing and tree rendering.
const DefaultMaxDepth = 3

// DefaultCacheSize is the number of directory listings kept per Probe.
const DefaultCacheSize = 1024

// DefaultIgnore lists directory names never listed or descended.
var DefaultIgnore = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	"coverage",
	".next",
	".nuxt",
	"__pycache__",
	"venv",
	".venv",
	"target",
	"vendor",
}

// Entry is one visible directory entry.
type Entry struct {
	Name  string
	IsDir bool
}

// Option configures a Probe.
type Option func(*Probe)

// WithMaxDepth sets the glob depth limit. A file's depth is its number of
// path segments, so "go.mod" is depth 1.
func WithMaxDepth(n int) Option {
	return func(p *Probe) { p.maxDepth = n }
}

// WithIgnore replaces the ignore list.
func WithIgnore(names ...string) Option {
	return func(p *Probe) {
		p.ignore = make(map[string]struct{}, len(names))
		for _, n := range names {
			p.ignore[n] = struct{}{}
		}
	}
}

// WithCacheSize sets the listing cache capacity.
func WithCacheSize(n int) Option {
	return func(p *Probe) { p.cacheSize = n }
}

// Probe is a read-only view of a project root. Safe for concurrent use.
type Probe struct {
	fsys      afero.Fs
	root      string
	maxDepth  int
	ignore    map[string]struct{}
	cacheSize int
	listings  *lru.Cache[string, []Entry]

	filesOnce sync.Once
	files     []string
}

// New returns a Probe rooted at root.
func New(fsys afero.Fs, root string, opts ...Option) *Probe {
	p := &Probe{
		fsys:      fsys,
		root:      filepath.Clean(root),
		maxDepth:  DefaultMaxDepth,
		cacheSize: DefaultCacheSize,
	}
	WithIgnore(DefaultIgnore...)(p)
	for _, opt := range opts {
		opt(p)
	}
	cache, err := lru.New[string, []Entry](p.cacheSize)
	if err != nil {
		// only fails for a non-positive size
		cache, _ = lru.New[string, []Entry](DefaultCacheSize)
	}
	p.listings = cache
	return p
}

// Root returns the absolute project root.
func (p *Probe) Root() string {
	return p.root
}

// FS returns the underlying filesystem.
func (p *Probe) FS() afero.Fs {
	return p.fsys
}

// MaxDepth returns the glob depth limit.
func (p *Probe) MaxDepth() int {
	return p.maxDepth
}

// Exists reports whether the slash-separated relative path exists.
func (p *Probe) Exists(rel string) bool {
	_, err := p.fsys.Stat(p.abs(rel))
	return err == nil
}

// ReadFile reads a file relative to the root.
func (p *Probe) ReadFile(rel string) ([]byte, error) {
	return afero.ReadFile(p.fsys, p.abs(rel))
}

// ListEntries returns the visible entries of the relative directory rel:
// dot-prefixed and ignored names are dropped, symlinks are reported as their
// target and skipped when it cannot be resolved, directories come first, and
// each group is sorted by name. Listings are cached for the Probe's lifetime.
func (p *Probe) ListEntries(rel string) ([]Entry, error) {
	key := cleanRel(rel)
	if cached, ok := p.listings.Get(key); ok {
		return cached, nil
	}

	infos, err := afero.ReadDir(p.fsys, p.abs(key))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") || p.ignored(name) {
			continue
		}
		isDir := info.IsDir()
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := p.fsys.Stat(p.abs(path.Join(key, name)))
			if err != nil {
				logging.Debug().Err(err).Str("entry", path.Join(key, name)).Msg("probe: skipping broken symlink")
				continue
			}
			isDir = target.IsDir()
		}
		entries = append(entries, Entry{Name: name, IsDir: isDir})
	}
	SortEntries(entries)

	p.listings.Add(key, entries)
	return entries, nil
}

// Glob returns the files under the root matching pattern, as sorted
// slash-separated relative paths. Files deeper than MaxDepth, hidden files
// and anything under an ignored directory never match.
func (p *Probe) Glob(pattern string) []string {
	if !hasMeta(pattern) {
		return p.globLiteral(pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		logging.Debug().Str("pattern", pattern).Msg("probe: invalid glob pattern")
		return nil
	}

	var out []string
	for _, f := range p.Files() {
		if ok, _ := doublestar.Match(pattern, f); ok {
			out = append(out, f)
		}
	}
	return out
}

// Files returns every visible file within MaxDepth, sorted. The walk runs
// once per Probe.
func (p *Probe) Files() []string {
	p.filesOnce.Do(func() {
		p.files = p.walk("", 1, nil)
		sort.Strings(p.files)
	})
	return p.files
}

func (p *Probe) walk(dir string, depth int, acc []string) []string {
	if depth > p.maxDepth {
		return acc
	}
	entries, err := p.ListEntries(dir)
	if err != nil {
		logging.Debug().Err(err).Str("dir", dir).Msg("probe: skipping unreadable directory")
		return acc
	}
	for _, e := range entries {
		rel := path.Join(dir, e.Name)
		if e.IsDir {
			acc = p.walk(rel, depth+1, acc)
			continue
		}
		acc = append(acc, rel)
	}
	return acc
}

func (p *Probe) globLiteral(pattern string) []string {
	rel := cleanRel(pattern)
	if rel == "" || depthOf(rel) > p.maxDepth {
		return nil
	}
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") || p.ignored(seg) {
			return nil
		}
	}
	info, err := p.fsys.Stat(p.abs(rel))
	if err != nil || info.IsDir() {
		return nil
	}
	return []string{rel}
}

func (p *Probe) ignored(name string) bool {
	_, ok := p.ignore[name]
	return ok
}

func (p *Probe) abs(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(cleanRel(rel)))
}

// SortEntries orders directories before files, each group by byte-wise name.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}

func cleanRel(rel string) string {
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == "/" {
		return ""
	}
	return strings.TrimPrefix(rel, "/")
}

func depthOf(rel string) int {
	return strings.Count(rel, "/") + 1
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[{\`)
}
