package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toparity/pkg/config"
	"github.com/matzehuels/toparity/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "toparity"

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

	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string
	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file into c.Config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// A cache that cannot be opened degrades to no caching with a warning.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	cc := c.Config.Cache
	if noCache {
		cc.Backend = config.BackendNone
	}
	store, err := cc.Open(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cc.Backend, "err", err)
		store = nil
	}
	r := pipeline.NewRunner(store, cc.Keyer(), nil, c.Logger)
	if ttl := cc.TTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r
}

// =============================================================================
// Input Helpers
// =============================================================================

// readInput reads an automaton file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// inputFormat returns the explicit format, or the one detected from data
// when none or "auto" is given.
func inputFormat(explicit string, data []byte) string {
	if explicit != "" && explicit != pipeline.FormatAuto {
		return explicit
	}
	return pipeline.DetectFormat(data)
}

// parseFormats parses a comma-separated format string into a slice.
// If empty, def is returned.
func parseFormats(s string, def []string) []string {
	if s == "" {
		return def
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
