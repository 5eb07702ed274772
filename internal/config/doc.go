// Package config manages user-level settings stored at ~/.tmplx/config.yaml
// and TMPLX_* environment variables: where the template library lives, where
// its manifest store is written, and which paths the indexer skips.
package config
