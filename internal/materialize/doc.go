// Package materialize recreates a template's layout under a destination
// root from its manifest. Directories are created in manifest order without
// creating missing ancestors, then files are copied byte for byte. The first
// failing step stops the run; nothing written before it is removed, so a
// failed run can leave a partially materialized destination behind.
package materialize
