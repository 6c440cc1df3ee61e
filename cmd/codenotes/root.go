package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/codenotes"
)

var (
	verbose     bool
	configPath  string
	adapterName string
	storePath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codenotes",
	Short: "Attach private notes to lines of source files",
	Long: `codenotes keeps short notes pinned to (file, line) pairs outside the code.
Notes are stored per workspace and shown as hovers and in a side panel.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if cfg, _ := loadConfig(); cfg != nil {
			level = cfg.Level()
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest codenotes.yaml or codenotes.toml)")
	rootCmd.PersistentFlags().StringVar(&adapterName, "adapter", "", "Storage adapter: fs, bolt or memory")
	rootCmd.PersistentFlags().StringVar(&storePath, "path", "", "Storage location (default: <workspace>/.codenotes)")
}

// loadConfig returns the explicit --config file or the nearest one found,
// nil when there is none.
func loadConfig() (*codenotes.FileConfig, error) {
	path := configPath
	if path == "" {
		found, err := codenotes.FindConfig(".")
		if err != nil || found == "" {
			return nil, err
		}
		path = found
	}
	return codenotes.LoadConfig(path)
}

// openService starts a service with config file settings overridden by flags.
func openService(ctx context.Context, host codenotes.Host, extra ...codenotes.Option) (*codenotes.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := cfg.Options()
	opts = append(opts, codenotes.WithLogger(slog.Default()), codenotes.WithHost(host))
	if adapterName != "" {
		opts = append(opts, codenotes.WithAdapter(adapterName))
	}
	if storePath != "" {
		opts = append(opts, codenotes.WithPath(storePath))
	}
	opts = append(opts, extra...)
	return codenotes.Start(ctx, opts...)
}

// parseLine converts a 1-based line argument into the 0-based index stored.
func parseLine(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid line %q: %w", arg, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid line %d: lines start at 1", n)
	}
	return n - 1, nil
}
