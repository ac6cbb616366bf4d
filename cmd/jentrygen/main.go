package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexhholmes/jentrygen/internal/config"
	"github.com/alexhholmes/jentrygen/internal/generate"
	"github.com/alexhholmes/jentrygen/internal/watch"
)

var (
	// Global flags
	cfgPath      string
	templatePath string
	verbose      bool

	// Generate flags
	dryRun    bool
	checkOnly bool
	watchMode bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jentrygen",
	Short: "Regenerate journal entry code in a C template",
	Long: `jentrygen reads the *_args record declarations at the top of a C
template and rewrites its two autogenerate regions: the dispatch cases
that print each record, and one constructor per record.

Text outside the regions is preserved byte for byte. The template is
replaced atomically, so a failed run leaves it untouched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if templatePath != "" {
			cfg.Template = templatePath
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&templatePath, "template", "t", "", "Template to rewrite (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the regenerated template instead of writing it")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "Fail if the template is out of date")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate whenever the template changes")
	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "check", "watch")

	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the production logger, or the development one when
// asked for in config or with --verbose.
func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development || verbose {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func generateOptions() generate.Options {
	return generate.Options{
		Template: cfg.Template,
		Markers:  cfg.ParserMarkers(),
		Codegen:  cfg.CodegenOptions(),
		Verify:   cfg.Verify,
		DryRun:   dryRun,
		Check:    checkOnly,
		Logger:   logger,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchMode {
		w := watch.New(cfg.Template, func(ctx context.Context) error {
			_, err := generate.Run(ctx, generateOptions())
			return err
		}, logger)
		return w.Run(ctx)
	}

	res, err := generate.Run(ctx, generateOptions())
	if err != nil {
		return err
	}

	if dryRun {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	return nil
}
