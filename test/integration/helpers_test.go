//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // TMPLX_HOME, holds config.yaml
	TemplatesDir string // the template library
	StorePath    string // manifest store written by index
	ProjectDir   string // destination for materialized templates
}

// setupTestEnv creates isolated temp directories and points TMPLX_HOME at
// one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:      t.TempDir(),
		TemplatesDir: t.TempDir(),
		ProjectDir:   t.TempDir(),
	}
	env.StorePath = filepath.Join(env.HomeDir, "manifest.json")

	t.Setenv("TMPLX_HOME", env.HomeDir)
	return env
}

// setupLibrary creates a synthetic template library with three templates of
// varying depth.
func setupLibrary(t *testing.T, templatesDir string) {
	t.Helper()

	// --- Minimal: files only ---
	writeFile(t, filepath.Join(templatesDir, "minimal", "index.html"), "<!doctype html>\n<canvas id=\"c\"></canvas>\n")
	writeFile(t, filepath.Join(templatesDir, "minimal", "main.js"), "import * as THREE from 'three';\n")

	// --- Rotating cube: nested sources and assets ---
	cube := filepath.Join(templatesDir, "rotating-cube")
	writeFile(t, filepath.Join(cube, "package.json"), `{"name":"rotating-cube","private":true}`+"\n")
	writeFile(t, filepath.Join(cube, "src", "main.js"), "import { scene } from './scene/scene.js';\n")
	writeFile(t, filepath.Join(cube, "src", "scene", "scene.js"), "export const scene = {};\n")
	writeFile(t, filepath.Join(cube, "src", "scene", "shaders", "cube.vert"), "void main() { gl_Position = vec4(0.0); }\n")
	writeFile(t, filepath.Join(cube, "public", "textures", "crate.png"), "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.MkdirAll(filepath.Join(cube, "public", "models"), 0755); err != nil {
		t.Fatalf("creating empty dir: %v", err)
	}

	// --- Particles: shares a base name across directories ---
	particles := filepath.Join(templatesDir, "particles")
	writeFile(t, filepath.Join(particles, "README.md"), "# Particles\n")
	writeFile(t, filepath.Join(particles, "emitters", "index.js"), "export * from './emitter.js';\n")
	writeFile(t, filepath.Join(particles, "forces", "index.js"), "export * from './gravity.js';\n")

	// Not templates.
	writeFile(t, filepath.Join(templatesDir, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(templatesDir, "LICENSE"), "MIT\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertSameBytes fails if the two files differ.
func assertSameBytes(t *testing.T, want, got string) {
	t.Helper()
	a, err := os.ReadFile(want)
	if err != nil {
		t.Errorf("reading %s: %v", want, err)
		return
	}
	b, err := os.ReadFile(got)
	if err != nil {
		t.Errorf("reading %s: %v", got, err)
		return
	}
	if string(a) != string(b) {
		t.Errorf("%s differs from %s", got, want)
	}
}
