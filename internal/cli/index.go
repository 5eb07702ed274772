package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmplx-labs/tmplx/internal/config"
	"github.com/tmplx-labs/tmplx/internal/indexer"
	"github.com/tmplx-labs/tmplx/internal/library"
)

var indexExclude []string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the manifest store from the template library",
	Long: `Walk every template in the library and write one manifest per template
to the manifest store. Each top-level directory of the library is a template;
hidden directories are ignored.

Examples:
  tmplx index
  tmplx index --templates ./templates --exclude node_modules --exclude "**/.DS_Store"`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexExclude, "exclude", nil, "Glob of paths to skip (repeatable, adds to index.exclude from config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := templatesDir()
	dest := storePath()
	logger := newLogger(cmd.ErrOrStderr())

	exclude := append(config.Exclude(), indexExclude...)
	store, err := library.Rebuild(root, dest, logger, indexer.WithExclude(exclude...))
	if err != nil {
		return err
	}

	files := 0
	for _, m := range store {
		files += len(m.Files)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d templates (%d files) into %s\n", len(store), files, dest)
	return nil
}
