package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tmplx-labs/tmplx/internal/branding"
	"github.com/tmplx-labs/tmplx/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Persistent flags shared by every command.
var (
	flagVerbose      bool
	flagTemplatesDir string
	flagStorePath    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` copies project starters out of a template library.

Run '` + branding.CLIName() + ` index' once whenever the library changes to record every
template's layout in a manifest store, then '` + branding.CLIName() + ` new <template> [dir]'
to recreate a template from that store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every indexing and copy step to stderr")
	rootCmd.PersistentFlags().StringVar(&flagTemplatesDir, "templates", "", "Template library directory (default from config, else ./templates)")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store", "", "Manifest store file (default <templates>/manifest.json)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// newLogger returns the diagnostic logger for a command. It is quiet unless
// --verbose is set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func templatesDir() string {
	if flagTemplatesDir != "" {
		return flagTemplatesDir
	}
	return config.TemplatesDir()
}

func storePath() string {
	if flagStorePath != "" {
		return flagStorePath
	}
	return config.StorePathFor(templatesDir())
}
