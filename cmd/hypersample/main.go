package main

import (
	"fmt"
	"io"
	"os"

	"hypersample/adapters/rng"
	"hypersample/adapters/spacefile"
	"hypersample/app"
	"hypersample/domain/core"
	"hypersample/domain/space"
	"hypersample/internal"
	"hypersample/internal/config"
	"hypersample/internal/coverage"
	"hypersample/internal/errors"
	"hypersample/internal/render"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit statuses by error code
const (
	exitFailure          = 1
	exitCapacityExceeded = 2
	exitUnsatisfiable    = 3
	exitMalformed        = 4
)

func main() {
	// Optional; system environment variables apply otherwise
	_ = godotenv.Load()

	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeCapacityExceeded:
		return exitCapacityExceeded
	case errors.CodeUnsatisfiable:
		return exitUnsatisfiable
	case errors.CodeMalformedDependency:
		return exitMalformed
	default:
		return exitFailure
	}
}

type runOptions struct {
	count         int
	seed          int64
	maxAttempts   int
	spaceFile     string
	discriminator string
	runID         string
	report        bool
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "hypersample [name]",
		Short: "Generate unique randomized hyperparameter commands",
		Long: `Draw unique hyperparameter combinations and print one training command per line.

By default every distinct combination of the independent parameters is drawn
once. The name tags each command's --img_prefix.

Configuration is read from the environment (or a .env file):
- LOG_LEVEL (ERROR|WARN|INFO|DEBUG|TRACE, default INFO)
- SAMPLER_SEED (default 0 = seed from the clock)
- SAMPLER_MAX_ATTEMPTS (default 100000 consecutive duplicate draws)
- SAMPLER_DISCRIMINATOR (default conv_layer_n)
- SPACE_FILE (YAML declaration; default built-in CNN space)
- COMMAND_PREFIX (base training command)

Example: hypersample twitter --seed 12345 --report

The seed alone fixes the draws; --run-id only tags log lines.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				cfg.Sampler.Seed = opts.seed
			}
			if flags.Changed("max-attempts") {
				cfg.Sampler.MaxAttempts = opts.maxAttempts
			}
			if flags.Changed("space") {
				cfg.Sampler.SpaceFile = opts.spaceFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSample(cmd, args[0], cfg, opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", 0, "Number of samples (default: every combination)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for reproducible runs (0 = clock)")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", 0, "Consecutive duplicate draws before giving up")
	cmd.Flags().StringVar(&opts.spaceFile, "space", "", "YAML parameter-space declaration")
	cmd.Flags().StringVar(&opts.discriminator, "discriminator", "", "Parameter keying the discriminated tables")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "UUID tagging this run in logs (default: generated)")
	cmd.Flags().BoolVar(&opts.report, "report", false, "Write a coverage report to stderr")

	return cmd
}

func runSample(cmd *cobra.Command, name string, cfg *config.Config, opts runOptions) error {
	logger := internal.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log.Level)

	var runID core.RunID
	if opts.runID != "" {
		parsed, err := core.ParseRunID(opts.runID)
		if err != nil {
			return errors.WithCode(errors.CodeInvalidInput, err)
		}
		runID = parsed
	}

	sp := space.Default()
	discriminator := cfg.Sampler.Discriminator
	if cfg.Sampler.SpaceFile != "" {
		decl, err := spacefile.Load(cfg.Sampler.SpaceFile)
		if err != nil {
			return app.Classify(err)
		}
		sp = decl.Space
		if decl.Discriminator != "" {
			discriminator = decl.Discriminator
		}
		logger.Debug("loaded space from %s", cfg.Sampler.SpaceFile)
	}
	if cmd.Flags().Changed("discriminator") {
		discriminator = opts.discriminator
	}

	svc := app.NewSamplingService(rng.NewSeededAdapter(), render.NewRenderer(cfg.Render.CommandPrefix), logger)
	svc.SetMaxAttempts(cfg.Sampler.MaxAttempts)

	result, err := svc.Run(cmd.Context(), app.SamplingRequest{
		Space:         sp,
		Name:          name,
		Count:         opts.count,
		Discriminator: discriminator,
		Seed:          cfg.Sampler.Seed,
		RunID:         runID,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range result.Commands {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return errors.Wrap(err, "failed to write command")
		}
	}

	if opts.report {
		report, err := coverage.Analyze(sp, result.Samples)
		if err != nil {
			return errors.Wrap(err, "failed to build coverage report")
		}
		if err := report.Format(cmd.ErrOrStderr()); err != nil {
			return errors.Wrap(err, "failed to write coverage report")
		}
	}

	return nil
}
