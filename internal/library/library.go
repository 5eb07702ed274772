package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmplx-labs/tmplx/internal/indexer"
	"github.com/tmplx-labs/tmplx/internal/manifest"
)

// Discover returns the template names under root, sorted. Hidden
// directories and plain files are not templates.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, manifest.Classify("read library", root, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Build indexes every template under root and returns the combined store.
func Build(root string, logger *slog.Logger, opts ...indexer.Option) (manifest.Store, error) {
	names, err := Discover(root)
	if err != nil {
		return nil, err
	}

	ix, err := indexer.New(append([]indexer.Option{indexer.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	store := make(manifest.Store, len(names))
	for _, name := range names {
		m, err := ix.Index(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		// The walk records any name the filesystem allows; reject the ones
		// the store cannot carry before they reach disk.
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		if logger != nil {
			logger.Debug("indexed", "template", name, "dirs", len(m.Dirs), "files", len(m.Files))
		}
		store[name] = m
	}
	return store, nil
}

// Rebuild indexes the library and writes the store to storePath. Nothing is
// written unless the whole store validates.
func Rebuild(root, storePath string, logger *slog.Logger, opts ...indexer.Option) (manifest.Store, error) {
	store, err := Build(root, logger, opts...)
	if err != nil {
		return nil, err
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	if err := manifest.Save(storePath, store); err != nil {
		return nil, fmt.Errorf("writing manifest store: %w", err)
	}
	return store, nil
}

// TemplateRoot returns the directory of the named template.
func TemplateRoot(root, name string) string {
	return filepath.Join(root, filepath.FromSlash(name))
}
