package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Print the layout recorded for a template",
	Long: `Print every directory (with a trailing slash) and file that 'new' would
create for the template, or the raw manifest with --json.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the manifest as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	m, err := store.Lookup(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, d := range m.Dirs {
		fmt.Fprintln(out, d+"/")
	}
	for _, f := range m.FilePaths() {
		fmt.Fprintln(out, f)
	}
	return nil
}
