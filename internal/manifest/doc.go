// Package manifest defines the template Manifest and the Manifest Store that
// persists one Manifest per template. It owns the ordering invariant on
// Manifest.Dirs, the error kinds shared by the indexer and the materializer,
// and the JSON (de)serialization of the store, including JSON Schema
// validation of documents read back from disk.
package manifest
