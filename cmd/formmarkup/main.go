package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formmarkup/pkg/compiler"
)

var (
	cfg    Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "formmarkup",
	Short:         "Compile declarative form documents into HTML markup",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		if cfg.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered field type tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range compiler.DefaultRegistry().List() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func main() {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "formmarkup: config: %v\n", err)
		os.Exit(2)
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.AllowHTTP, "allow-http", cfg.AllowHTTP, "allow http(s) sources")
	rootCmd.PersistentFlags().StringVar(&cfg.Format, "format", cfg.Format, "document format: auto, json or yaml")
	rootCmd.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "timeout for http(s) sources")

	compileCmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "write <name>.html files here instead of stdout")
	compileCmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "maximum concurrent compiles")
	watchCmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "write <name>.html here instead of stdout")

	rootCmd.AddCommand(compileCmd, watchCmd, typesCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "formmarkup: %v\n", err)
		os.Exit(1)
	}
}
