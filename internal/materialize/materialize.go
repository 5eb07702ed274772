package materialize

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/tmplx-labs/tmplx/internal/manifest"
	"github.com/tmplx-labs/tmplx/internal/platform"
)

const dirPerm = 0o755

// Materializer copies templates from a source filesystem rooted at the
// template into a destination filesystem rooted at the target directory.
type Materializer struct {
	src    billy.Filesystem
	dst    billy.Filesystem
	logger *slog.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger used for per-step tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(mt *Materializer) {
		if logger != nil {
			mt.logger = logger
		}
	}
}

// New returns a Materializer reading from src and writing to dst.
func New(src, dst billy.Filesystem, opts ...Option) *Materializer {
	mt := &Materializer{
		src:    src,
		dst:    dst,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(mt)
	}
	return mt
}

// Materialize recreates the template at templateRoot, as described by m,
// under destRoot. destRoot must already exist.
func Materialize(templateRoot string, m *manifest.Manifest, destRoot string, opts ...Option) error {
	for _, root := range []struct{ op, path string }{
		{"open template", templateRoot},
		{"open destination", destRoot},
	} {
		info, err := os.Stat(root.path)
		if err != nil {
			return manifest.Classify(root.op, root.path, err)
		}
		if !info.IsDir() {
			return &manifest.PathError{Kind: manifest.ErrNotFound, Op: root.op, Path: root.path, Err: errNotDir}
		}
	}

	return New(osfs.New(templateRoot), osfs.New(destRoot), opts...).Run(m)
}

// Run validates m and then performs its plan. On failure it returns a
// *StepError; earlier steps are not undone.
func (mt *Materializer) Run(m *manifest.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	steps := Plan(m)
	for i, step := range steps {
		var err error
		switch step.Op {
		case OpMkdir:
			err = mt.mkdir(step.Path)
		case OpCopy:
			err = mt.copyFile(step.Path)
		}
		if err != nil {
			mt.logger.Debug("materialize stopped", "step", i+1, "op", step.Op, "path", step.Path, "err", err)
			return &StepError{Step: i + 1, Total: len(steps), Op: step.Op, Path: step.Path, Err: err}
		}
		mt.logger.Debug("materialized", "step", i+1, "op", step.Op, "path", step.Path)
	}
	return nil
}

// mkdir creates exactly one directory. The parent has to exist already and
// the directory itself must not.
func (mt *Materializer) mkdir(dir string) error {
	if _, err := mt.dst.Lstat(dir); err == nil {
		return &manifest.PathError{Kind: manifest.ErrAlreadyExists, Op: "mkdir", Path: dir, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return manifest.Classify("mkdir", dir, err)
	}

	if parent := path.Dir(dir); parent != "." {
		info, err := mt.dst.Stat(parent)
		if err != nil {
			return manifest.Classify("mkdir", dir, err)
		}
		if !info.IsDir() {
			return &manifest.PathError{Kind: manifest.ErrNotFound, Op: "mkdir", Path: dir, Err: errParentNotDir}
		}
	}

	return manifest.Classify("mkdir", dir, mt.dst.MkdirAll(dir, dirPerm))
}

// copyFile copies one file verbatim, refusing to replace an existing one,
// and carries over the source permission bits.
func (mt *Materializer) copyFile(rel string) error {
	info, err := mt.src.Stat(rel)
	if err != nil {
		return manifest.Classify("stat", rel, err)
	}

	in, err := mt.src.Open(rel)
	if err != nil {
		return manifest.Classify("open", rel, err)
	}
	defer in.Close()

	out, err := mt.dst.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return manifest.Classify("create", rel, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return manifest.Classify("copy", rel, err)
	}
	if err := out.Close(); err != nil {
		return manifest.Classify("close", rel, err)
	}

	return manifest.Classify("chmod", rel, platform.Chmod(mt.dst, rel, info.Mode()))
}
