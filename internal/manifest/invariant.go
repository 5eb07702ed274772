package manifest

import (
	"cmp"
	"path"
	"slices"
	"strings"
	"unicode/utf8"
)

// Depth returns the number of segments in a slash-separated relative path.
func Depth(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}

// SortByDepth orders dirs by ascending segment count. The sort is stable, so
// directories of equal depth keep their discovery order. Sorting this way
// guarantees every parent precedes its children.
func SortByDepth(dirs []string) {
	slices.SortStableFunc(dirs, func(a, b string) int {
		return cmp.Compare(Depth(a), Depth(b))
	})
}

// Validate checks the structural invariants the materializer depends on:
// every directory's parent is listed before it, no directory is listed
// twice, every file lives in the root or a listed directory, and no path
// escapes the template root.
func (m *Manifest) Validate() error {
	if m == nil {
		return corruptf("manifest is null")
	}

	index := make(map[string]int, len(m.Dirs))
	for i, d := range m.Dirs {
		if !isRelPath(d) {
			return corruptf("invalid directory path %q", d)
		}
		if _, dup := index[d]; dup {
			return corruptf("directory %q listed twice", d)
		}
		// index only holds earlier entries, so a miss means the parent is
		// absent or comes later.
		if parent := path.Dir(d); parent != "." {
			if _, ok := index[parent]; !ok {
				return corruptf("directory %q listed before its parent %q", d, parent)
			}
		}
		index[d] = i
	}

	for base, dir := range m.Files {
		if !isName(base) {
			return corruptf("invalid file name %q", base)
		}
		if dir == "" {
			continue
		}
		if _, ok := index[dir]; !ok {
			return corruptf("file %q refers to unlisted directory %q", base, dir)
		}
	}
	return nil
}

// Validate checks every manifest in the store.
func (s Store) Validate() error {
	for _, name := range s.Names() {
		if !isName(name) {
			return corruptf("invalid template name %q", name)
		}
		if err := s[name].Validate(); err != nil {
			return fmtTemplate(name, err)
		}
	}
	return nil
}

// isRelPath reports whether p is a clean, non-empty, slash-separated path
// that stays inside its root. Names must be valid UTF-8 so they survive a
// JSON round trip unchanged.
func isRelPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) || !utf8.ValidString(p) {
		return false
	}
	if path.Clean(p) != p {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return true
}

// isName reports whether s is a single path segment.
func isName(s string) bool {
	return isRelPath(s) && !strings.Contains(s, "/")
}
