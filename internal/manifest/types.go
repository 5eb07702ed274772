package manifest

import (
	"maps"
	"path"
	"slices"
	"sort"
)

// Manifest describes the directory and file layout of one template.
//
// Dirs lists every directory relative to the template root, parents before
// children. Files maps a file's base name to the relative directory holding
// it; "" is the template root. Two files sharing a base name collapse into
// one entry, the later-visited one winning.
type Manifest struct {
	Files map[string]string `json:"files"`
	Dirs  []string          `json:"dirs"`
}

// Store maps template names to their manifests. It is written as a single
// JSON document by the indexer and only read at materialization time.
type Store map[string]*Manifest

// New returns an empty manifest whose fields serialize as {} and [] rather
// than null.
func New() *Manifest {
	return &Manifest{
		Files: map[string]string{},
		Dirs:  []string{},
	}
}

// Equal reports whether m and other describe the same layout, including the
// order of Dirs.
func (m *Manifest) Equal(other *Manifest) bool {
	if m == nil || other == nil {
		return m == other
	}
	return slices.Equal(m.Dirs, other.Dirs) && maps.Equal(m.Files, other.Files)
}

// FilePaths returns the relative path of every file the manifest produces,
// sorted.
func (m *Manifest) FilePaths() []string {
	paths := make([]string, 0, len(m.Files))
	for base, dir := range m.Files {
		paths = append(paths, path.Join(dir, base))
	}
	sort.Strings(paths)
	return paths
}

// Names returns the template names in the store, sorted.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the manifest for a template or an ErrNotFound error.
func (s Store) Lookup(name string) (*Manifest, error) {
	m, ok := s[name]
	if !ok || m == nil {
		return nil, &PathError{Kind: ErrNotFound, Op: "lookup", Path: name, Err: errUnknownTemplate}
	}
	return m, nil
}
