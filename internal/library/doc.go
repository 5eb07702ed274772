// Package library treats a directory as a collection of templates: every
// visible top-level subdirectory is one template. It builds the manifest
// store for the whole collection and detects when a written store no longer
// reflects the directories on disk.
package library
