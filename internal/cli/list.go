package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tmplx-labs/tmplx/internal/branding"
	"github.com/tmplx-labs/tmplx/internal/library"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in the manifest store",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one template for display.
type listEntry struct {
	Name  string `json:"name"`
	Dirs  int    `json:"dirs"`
	Files int    `json:"files"`
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	if library.IsStale(storePath(), templatesDir()) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Manifest store is older than the template library. Run '%s index'.\n", branding.CLIName())
	}

	entries := make([]listEntry, 0, len(store))
	for _, name := range store.Names() {
		m := store[name]
		entries = append(entries, listEntry{Name: name, Dirs: len(m.Dirs), Files: len(m.Files)})
	}

	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No templates indexed.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIRS\tFILES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\n", e.Name, e.Dirs, e.Files)
	}
	return w.Flush()
}
