package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tmplx-labs/tmplx/internal/branding"
	"github.com/tmplx-labs/tmplx/internal/manifest"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyTemplatesDir = "templates_dir"
	KeyStorePath    = "store_path"
	KeyExclude      = "index.exclude"
)

// DefaultTemplatesDir is used when no library location is configured.
const DefaultTemplatesDir = "templates"

// Dir returns the config directory: $TMPLX_HOME if set, else ~/.tmplx/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper from the config file and environment. Calling it
// again discards previously loaded values.
func Load() {
	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyTemplatesDir, DefaultTemplatesDir)
	viper.SetDefault(KeyStorePath, "")
	viper.SetDefault(KeyExclude, []string{})

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	if key == KeyExclude {
		return strings.Join(Exclude(), ",")
	}
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. The value
// of index.exclude is a comma-separated list of globs.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyExclude {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// TemplatesDir returns the configured template library root.
func TemplatesDir() string {
	if v := viper.GetString(KeyTemplatesDir); v != "" {
		return v
	}
	return DefaultTemplatesDir
}

// StorePathFor returns the configured manifest store path, or manifest.json
// inside templatesDir when none is configured.
func StorePathFor(templatesDir string) string {
	if v := viper.GetString(KeyStorePath); v != "" {
		return v
	}
	return filepath.Join(templatesDir, manifest.DefaultStoreFile)
}

// Exclude returns the globs the indexer skips.
func Exclude() []string {
	var out []string
	for _, v := range viper.GetStringSlice(KeyExclude) {
		out = append(out, splitList(v)...)
	}
	return out
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
