package materialize

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmplx-labs/tmplx/internal/indexer"
	"github.com/tmplx-labs/tmplx/internal/manifest"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// snapshot maps every relative path under root to its content; directories
// map to "/".
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			out[rel] = "/"
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMaterializeExample(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "beta",
	})
	m := &manifest.Manifest{
		Dirs:  []string{"sub"},
		Files: map[string]string{"a.txt": "", "b.txt": "sub"},
	}

	dst := t.TempDir()
	require.NoError(t, Materialize(src, m, dst))

	assert.Equal(t, map[string]string{
		"a.txt":     "alpha",
		"sub":       "/",
		"sub/b.txt": "beta",
	}, snapshot(t, dst))
}

func TestRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"index.html":                    "<!doctype html><canvas></canvas>",
		"package.json":                  `{"name":"demo"}`,
		"src/main.js":                   "import * as THREE from 'three'",
		"src/scenes/cube.js":            "export const cube = 1",
		"src/scenes/shaders/v.glsl":     "void main() {}",
		"public/models/teapot.glb":      "glTF\x02\x00\x00\x00\xff\xfe\x00binary",
		"public/textures/":              "",
		"public/textures/hdr/":          "",
		"docs/guide/getting-started.md": "# Start",
	})

	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, Materialize(src, m, dst))

	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestRoundTripDropsCollidingBaseNames(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a/config.js": "a",
		"b/config.js": "b",
	})

	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, Materialize(src, m, dst))

	assert.Equal(t, map[string]string{
		"a":           "/",
		"b":           "/",
		"b/config.js": "b",
	}, snapshot(t, dst))
}

func TestMaterializeTwiceFailsOnFirstDirectory(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a", "sub/b.txt": "b"})
	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, Materialize(src, m, dst))

	err = Materialize(src, m, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrAlreadyExists)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Step)
	assert.Equal(t, 3, stepErr.Total)
	assert.Equal(t, OpMkdir, stepErr.Op)
	assert.Equal(t, "sub", stepErr.Path)
	assert.Contains(t, err.Error(), "stopped at step 1 of 3")
}

func TestMaterializeExistingFileCollides(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "new"})
	dst := t.TempDir()
	writeTree(t, dst, map[string]string{"a.txt": "old"})

	err := Materialize(src, &manifest.Manifest{Dirs: []string{}, Files: map[string]string{"a.txt": ""}}, dst)
	assert.ErrorIs(t, err, manifest.ErrAlreadyExists)

	data, readErr := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}

func TestMaterializeRejectsBadOrderingBeforeWriting(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a/b/c.txt": "c"})
	m := &manifest.Manifest{
		Dirs:  []string{"a/b", "a"},
		Files: map[string]string{"c.txt": "a/b"},
	}

	dst := t.TempDir()
	err := Materialize(src, m, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrCorruptManifest)
	assert.Empty(t, snapshot(t, dst))
}

func TestMkdirDoesNotCreateAncestors(t *testing.T) {
	mt := New(memfs.New(), memfs.New())

	err := mt.mkdir("a/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrNotFound)

	require.NoError(t, mt.mkdir("a"))
	require.NoError(t, mt.mkdir("a/b"))
}

func TestMaterializeMissingSourceFile(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})
	m := &manifest.Manifest{
		Dirs:  []string{"sub"},
		Files: map[string]string{"a.txt": "", "gone.txt": "sub"},
	}

	dst := t.TempDir()
	err := Materialize(src, m, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrNotFound)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 3, stepErr.Step)
	assert.Equal(t, "sub/gone.txt", stepErr.Path)

	// Earlier steps stay on disk.
	assert.Equal(t, map[string]string{"a.txt": "a", "sub": "/"}, snapshot(t, dst))
}

// failingFS fails the n-th file creation.
type failingFS struct {
	billy.Filesystem
	failOn  int
	creates int
}

var errInjected = errors.New("injected write failure")

func (f *failingFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 {
		f.creates++
		if f.creates == f.failOn {
			return nil, errInjected
		}
	}
	return f.Filesystem.OpenFile(name, flag, perm)
}

func TestPartialFailureIsNotRolledBack(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":       "a",
		"b.txt":       "b",
		"lib/c.txt":   "c",
		"lib/x/d.txt": "d",
	})
	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	faulty := &failingFS{Filesystem: osfs.New(dst), failOn: 3}
	err = New(osfs.New(src), faulty).Run(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	// Two directories, then files in path order: a.txt, b.txt, lib/c.txt.
	assert.Equal(t, 5, stepErr.Step)
	assert.Equal(t, 6, stepErr.Total)
	assert.Equal(t, OpCopy, stepErr.Op)
	assert.Equal(t, "lib/c.txt", stepErr.Path)

	assert.Equal(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
		"lib":   "/",
		"lib/x": "/",
	}, snapshot(t, dst))
}

func TestMaterializeMissingDestination(t *testing.T) {
	src := t.TempDir()
	err := Materialize(src, manifest.New(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, manifest.ErrNotFound)
}

func TestMaterializeMissingTemplateRoot(t *testing.T) {
	err := Materialize(filepath.Join(t.TempDir(), "missing"), manifest.New(), t.TempDir())
	assert.ErrorIs(t, err, manifest.ErrNotFound)
}

func TestMaterializePermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	src := t.TempDir()
	writeTree(t, src, map[string]string{"sub/a.txt": "a"})
	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, os.Chmod(dst, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dst, 0o755) })

	err = Materialize(src, m, dst)
	assert.ErrorIs(t, err, manifest.ErrPermissionDenied)
}

func TestMaterializePreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no Unix permission bits on Windows")
	}
	src := t.TempDir()
	writeTree(t, src, map[string]string{"bin/serve.sh": "#!/bin/sh\n"})
	require.NoError(t, os.Chmod(filepath.Join(src, "bin", "serve.sh"), 0o755))
	m, err := indexer.Index(src)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, Materialize(src, m, dst))

	info, err := os.Stat(filepath.Join(dst, "bin", "serve.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestRunInMemory(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "index.html", []byte("<html>"), 0o644))
	require.NoError(t, util.WriteFile(src, "js/app.js", []byte("app"), 0o644))
	m := &manifest.Manifest{
		Dirs:  []string{"js"},
		Files: map[string]string{"index.html": "", "app.js": "js"},
	}

	dst := memfs.New()
	require.NoError(t, New(src, dst).Run(m))

	for _, p := range []string{"index.html", "js/app.js"} {
		assert.Equal(t, readBilly(t, src, p), readBilly(t, dst, p), p)
	}
}

func TestPlan(t *testing.T) {
	m := &manifest.Manifest{
		Dirs:  []string{"src", "assets", "src/scenes"},
		Files: map[string]string{"z.js": "", "cube.js": "src/scenes", "logo.png": "assets"},
	}
	steps := Plan(m)

	want := []Step{
		{Op: OpMkdir, Path: "src"},
		{Op: OpMkdir, Path: "assets"},
		{Op: OpMkdir, Path: "src/scenes"},
		{Op: OpCopy, Path: "assets/logo.png"},
		{Op: OpCopy, Path: "src/scenes/cube.js"},
		{Op: OpCopy, Path: "z.js"},
	}
	assert.Equal(t, want, steps)

	var copies []string
	for _, s := range steps {
		if s.Op == OpCopy {
			copies = append(copies, s.Path)
		}
	}
	assert.True(t, sort.StringsAreSorted(copies))
}

func readBilly(t *testing.T, fsys billy.Filesystem, name string) []byte {
	t.Helper()
	f, err := fsys.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}
