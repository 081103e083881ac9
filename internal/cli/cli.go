// Package cli implements the datasprout command-line interface.
//
// # Commands
//
//   - generate: render a knowledge graph into messy workbooks
//   - batch: run several datasets and modes from a TOML file
//   - schema: inspect the classes and properties of a graph
//   - serve: start the HTTP server
//   - runs: list recorded generation runs
//   - cache: manage the download and archive cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/buildinfo"
	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/pipeline"
	"github.com/matzehuels/datasprout/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "datasprout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "DataSprout turns knowledge graphs into messy spreadsheets",
		Long:          `DataSprout renders RDF knowledge graphs into spreadsheets that look hand-made, together with the ground-truth graph and cell-level provenance of every value.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Runs are recorded in the
// local run store.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	st, err := store.NewFileStore("")
	if err != nil {
		c.Logger.Warn("run store unavailable", "err", err)
		return r, nil
	}
	r.Store = st
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/datasprout/).
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
