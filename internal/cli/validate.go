package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tmplx-labs/tmplx/internal/library"
	"github.com/tmplx-labs/tmplx/internal/manifest"
)

var validateSources bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the manifest store for corruption",
	Long: `Parse the manifest store, check it against its schema and verify that every
template lists parent directories before their children.

With --sources, also check that every file and directory the store refers to
still exists in the template library.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSources, "sources", false, "Also check the store against the template library on disk")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	if validateSources {
		var problems []error
		for _, name := range store.Names() {
			problems = append(problems, checkSources(library.TemplateRoot(templatesDir(), name), name, store[name])...)
		}
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d entries missing from the template library: %w", len(problems), errors.Join(problems...))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d templates in %s\n", len(store), storePath())
	return nil
}

// checkSources stats each path the manifest refers to. It never lists
// directories, so entries on disk that the manifest lacks go unnoticed.
func checkSources(root, name string, m *manifest.Manifest) []error {
	var problems []error
	check := func(rel string, wantDir bool) {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", name, manifest.Classify("stat", rel, err)))
			return
		}
		if info.IsDir() != wantDir {
			problems = append(problems, fmt.Errorf("%s: %s has changed type", name, rel))
		}
	}
	for _, d := range m.Dirs {
		check(d, true)
	}
	for _, f := range m.FilePaths() {
		check(f, false)
	}
	return problems
}
