// Package cli implements the croquis command-line interface.
//
// This package provides commands for converting CoNLL treebanks between
// dialects, guessing the dialect of an input, browsing rendered trees in
// the terminal, and serving the conversion pipeline over HTTP. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
//   - convert: Parse a treebank and render the requested outputs
//   - guess: Print the detected dialect of an input
//   - view: Browse the rendered trees in an interactive pager
//   - serve: Expose the pipeline as an HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tmarceau/croquis/pkg/buildinfo"
	"github.com/tmarceau/croquis/pkg/cache"
	"github.com/tmarceau/croquis/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "croquis"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the user's
// configuration file applied (missing files yield an empty config).
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	cfg, err := LoadConfig()
	if err != nil {
		logger.Warn("ignoring unreadable config file", "err", err)
		cfg = &Config{}
	}
	return &CLI{Logger: logger, Config: cfg}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Croquis draws dependency trees from CoNLL treebanks",
		Long:         `Croquis reads dependency treebanks in the common CoNLL dialects and converts them into other dialects, JSON, Graphviz diagrams, or text-art trees drawn right in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				cfg, err := loadConfigFile(configFile)
				if err != nil {
					return err
				}
				c.Config = cfg
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/croquis/config.toml)")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.guessCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := c.Config.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/croquis/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseOutputs parses a comma-separated output string into a slice.
// An empty string falls back to the configured outputs, then to text art.
func (c *CLI) parseOutputs(s string) []string {
	if s == "" {
		if len(c.Config.Outputs) > 0 {
			return c.Config.Outputs
		}
		return []string{pipeline.OutputASCII}
	}
	return strings.Split(s, ",")
}

// readInput reads the treebank from path, or from stdin when path is empty
// or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
