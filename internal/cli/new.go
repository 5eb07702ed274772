package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmplx-labs/tmplx/internal/branding"
	"github.com/tmplx-labs/tmplx/internal/library"
	"github.com/tmplx-labs/tmplx/internal/manifest"
	"github.com/tmplx-labs/tmplx/internal/materialize"
)

var newDryRun bool

var newCmd = &cobra.Command{
	Use:   "new <template> [dir]",
	Short: "Create a project from a template",
	Long: `Recreate a template's directories and files in dir (default: the current
directory) using the layout recorded in the manifest store. Nothing already
in dir is overwritten: the command stops at the first path that exists, and
whatever it created before that point is left in place.

Examples:
  tmplx new rotating-cube
  tmplx new particles ./my-demo`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNew,
}

func init() {
	newCmd.Flags().BoolVar(&newDryRun, "dry-run", false, "Print the planned steps without writing anything")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	dest := "."
	if len(args) == 2 {
		dest = args[1]
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	m, err := store.Lookup(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if newDryRun {
		for _, step := range materialize.Plan(m) {
			fmt.Fprintf(out, "%-5s %s\n", step.Op, step.Path)
		}
		return nil
	}

	if err := ensureDestination(dest); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	err = materialize.Materialize(library.TemplateRoot(templatesDir(), name), m, dest, materialize.WithLogger(logger))
	if err != nil {
		var stepErr *materialize.StepError
		if errors.As(err, &stepErr) && stepErr.Step > 1 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Partial output left in %s (%d of %d steps completed).\n", dest, stepErr.Step-1, stepErr.Total)
		}
		return err
	}

	fmt.Fprintf(out, "Created %s in %s (%d directories, %d files)\n", name, dest, len(m.Dirs), len(m.Files))
	return nil
}

// ensureDestination creates the destination root itself when it is missing.
// Everything below it is left to the materializer.
func ensureDestination(dest string) error {
	info, err := os.Stat(dest)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dest)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return manifest.Classify("stat", dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return manifest.Classify("mkdir", dest, err)
	}
	return nil
}

// loadStore reads the manifest store, pointing at the index command when
// the store has not been built yet.
func loadStore() (manifest.Store, error) {
	path := storePath()
	store, err := manifest.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (run '%s index' first)", err, branding.CLIName())
		}
		return nil, err
	}
	return store, nil
}
