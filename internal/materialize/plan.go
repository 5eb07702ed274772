package materialize

import "github.com/tmplx-labs/tmplx/internal/manifest"

// Op names the kind of a Step.
type Op string

const (
	OpMkdir Op = "mkdir"
	OpCopy  Op = "copy"
)

// Step is one action of a materialization. Path is relative to both the
// template root and the destination root.
type Step struct {
	Op   Op
	Path string
}

// Plan lists the steps Run performs for m: every directory in manifest
// order, then every file sorted by path.
func Plan(m *manifest.Manifest) []Step {
	steps := make([]Step, 0, len(m.Dirs)+len(m.Files))
	for _, d := range m.Dirs {
		steps = append(steps, Step{Op: OpMkdir, Path: d})
	}
	for _, f := range m.FilePaths() {
		steps = append(steps, Step{Op: OpCopy, Path: f})
	}
	return steps
}
