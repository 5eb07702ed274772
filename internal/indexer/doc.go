// Package indexer builds a manifest.Manifest from a template directory. The
// walk is depth-first over entries in name order; it returns a fresh
// manifest and never mutates caller-owned state.
package indexer
