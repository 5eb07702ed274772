package indexer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/tmplx-labs/tmplx/internal/manifest"
)

var errNotDir = errors.New("template root is not a directory")

// Indexer walks template trees.
type Indexer struct {
	exclude []string
	logger  *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithExclude skips entries whose relative path or base name matches any of
// the doublestar globs. Excluded directories are not descended into.
func WithExclude(globs ...string) Option {
	return func(ix *Indexer) {
		ix.exclude = append(ix.exclude, globs...)
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// New returns an Indexer. Without options nothing is excluded.
func New(opts ...Option) (*Indexer, error) {
	ix := &Indexer{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(ix)
	}
	for _, g := range ix.exclude {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
	}
	return ix, nil
}

// Index builds the manifest of the template rooted at templateRoot on the
// OS filesystem.
func Index(templateRoot string, opts ...Option) (*manifest.Manifest, error) {
	ix, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return ix.Index(templateRoot)
}

// Index builds the manifest of the template rooted at templateRoot.
func (ix *Indexer) Index(templateRoot string) (*manifest.Manifest, error) {
	info, err := os.Stat(templateRoot)
	if err != nil {
		return nil, manifest.Classify("index", templateRoot, err)
	}
	if !info.IsDir() {
		return nil, &manifest.PathError{Kind: manifest.ErrNotFound, Op: "index", Path: templateRoot, Err: errNotDir}
	}

	m, err := ix.IndexFS(osfs.New(templateRoot))
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", templateRoot, err)
	}
	return m, nil
}

// IndexFS builds the manifest of the tree rooted at the top of fsys.
func (ix *Indexer) IndexFS(fsys billy.Filesystem) (*manifest.Manifest, error) {
	found, err := ix.walk(fsys, "")
	if err != nil {
		return nil, err
	}

	m := manifest.New()
	for _, f := range found.files {
		if prev, ok := m.Files[f.base]; ok && prev != f.dir {
			ix.logger.Debug("base name collision", "file", f.base, "dropped", prev, "kept", f.dir)
		}
		m.Files[f.base] = f.dir
	}

	seen := make(map[string]bool, len(found.dirs))
	for _, d := range found.dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		m.Dirs = append(m.Dirs, d)
	}
	manifest.SortByDepth(m.Dirs)

	ix.logger.Debug("indexed template", "dirs", len(m.Dirs), "files", len(m.Files))
	return m, nil
}

type fileEntry struct {
	base string
	dir  string
}

// subtree is what one directory level contributes to the manifest, in
// discovery order.
type subtree struct {
	dirs  []string
	files []fileEntry
}

func (ix *Indexer) walk(fsys billy.Filesystem, rel string) (*subtree, error) {
	entries, err := fsys.ReadDir(rel)
	if err != nil {
		return nil, manifest.Classify("readdir", displayPath(rel), err)
	}

	out := &subtree{}
	for _, entry := range entries {
		name := entry.Name()
		child := path.Join(rel, name)
		if ix.excluded(child, name) {
			ix.logger.Debug("excluded", "path", child)
			continue
		}

		switch {
		case entry.IsDir():
			sub, err := ix.walk(fsys, child)
			if err != nil {
				return nil, err
			}
			out.dirs = append(out.dirs, sub.dirs...)
			out.dirs = append(out.dirs, child)
			out.files = append(out.files, sub.files...)
		case entry.Mode().IsRegular():
			out.files = append(out.files, fileEntry{base: name, dir: rel})
		default:
			ix.logger.Debug("skipping non-regular file", "path", child, "mode", entry.Mode().String())
		}
	}
	return out, nil
}

func (ix *Indexer) excluded(rel, name string) bool {
	for _, g := range ix.exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
