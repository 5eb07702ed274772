// Package cli defines the Cobra command tree for the tmplx CLI. Each file
// registers one top-level command with the root command. Commands resolve
// paths from flags and config, delegate to the library, manifest and
// materialize packages, and only handle flag parsing and output formatting.
package cli
