package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/combotally-cli/internal/config"
	"github.com/KaramelBytes/combotally-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logJSON bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Shared logger, built on first use
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "combotally",
	Short: "combotally: combinatorial grouping and counting over CSV/XLSX sheets",
	Long: `combotally reads CSV or XLSX sheets, groups rows by an identity column and every
k-combination of a column set, tallies over/under and win/lose outcomes per group,
and writes the summary as a new sheet. Companion commands bucket values into ranges,
split sheets by a column, match reports back against a daily sheet and compute
biorhythm cycles.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.combotally/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON on stderr")
}

func loadConfig() { currentConfig() }

// currentConfig returns the loaded config, loading it on demand when the
// command tree runs without Execute (tests). A config file that fails to
// load or validate is reported and replaced by the built-in defaults, so
// commands still run from flags.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config, using defaults: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	return cfg
}

func currentLogger() *zap.Logger {
	if logger != nil {
		return logger
	}
	opt := logging.Options{Debug: debug, JSON: logJSON}
	if cfg != nil {
		opt.Level = cfg.LogLevel
		opt.JSON = opt.JSON || cfg.LogJSON
	}
	l, err := logging.New(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; logging disabled\n", err)
		l = zap.NewNop()
	}
	logger = l
	return logger
}
