package library

import (
	"os"
	"path/filepath"
	"strings"
)

// IsStale reports whether the store at storePath predates the library at
// root. A missing store is stale. Only the library root, its template
// directories and their immediate subdirectories are checked, which catches
// added and removed entries without a full walk.
func IsStale(storePath, root string) bool {
	info, err := os.Stat(storePath)
	if err != nil {
		return true
	}
	return latestMtime(root) > info.ModTime().Unix()
}

// latestMtime returns the newest modification time (unix seconds) across
// root, its visible subdirectories and one level below them.
func latestMtime(root string) int64 {
	latest := mtime(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return latest
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		tmplDir := filepath.Join(root, entry.Name())
		if t := mtime(tmplDir); t > latest {
			latest = t
		}
		subs, err := os.ReadDir(tmplDir)
		if err != nil {
			continue
		}
		for _, sub := range subs {
			if sub.IsDir() {
				if t := mtime(filepath.Join(tmplDir, sub.Name())); t > latest {
					latest = t
				}
			}
		}
	}
	return latest
}

func mtime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}
