package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	docpost "github.com/alnah/go-docpost"
	"github.com/alnah/go-docpost/internal/config"
	"github.com/alnah/go-docpost/internal/fileutil"
	"github.com/alnah/go-docpost/internal/hints"
	"github.com/alnah/go-docpost/internal/metrics"
)

// ErrUsage wraps invalid command lines.
var ErrUsage = errors.New("invalid usage")

// runProcess orchestrates a processing run.
func runProcess(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseProcessFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one input, got %d", ErrUsage, len(positional))
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadEffectiveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := env.NewLogger(flags.common.debug, flags.common.quiet)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar().With("run_id", uuid.NewString())

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
	// env value, and the runtime default then applies.
	_, _ = maxprocs.Set(maxprocs.Logger(log.Debugf))

	inputPath := cfg.Input.Dir
	if len(positional) == 1 {
		inputPath = positional[0]
	}
	if inputPath == "" {
		return fmt.Errorf("%w%s", ErrNoInput, hints.ForInputNotFound())
	}

	tasks, err := discoverFiles(inputPath, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("discovering pages: %w%s", err, hints.ForInputNotFound())
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w in %s", ErrNoPages, inputPath)
	}

	if flags.dryRun {
		for _, task := range tasks {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", task.InputPath, task.OutputPath)
		}
		return nil
	}

	export, err := loadExport(cfg.Export.Path)
	if err != nil {
		return err
	}

	var recorder *metrics.PrometheusRecorder
	opts := processorOptions(cfg, log)
	if cfg.Metrics.File != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, docpost.WithRecorder(recorder))
	}

	proc, err := docpost.NewProcessor(export, opts...)
	if err != nil {
		return err
	}

	policy, err := docpost.ParsePolicy(cfg.Run.Policy)
	if err != nil {
		return err
	}
	workers := docpost.ResolveWorkers(cfg.Run.Workers)

	log.Infow("run started",
		"input", inputPath,
		"output", cfg.Output.Dir,
		"pages", len(tasks),
		"workers", workers,
		"policy", policy.String(),
	)
	start := env.Now()
	results, runErr := docpost.Run(ctx, proc, tasks, docpost.RunOptions{Workers: workers, Policy: policy})
	elapsed := env.Now().Sub(start)

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	log.Infow("run finished",
		"succeeded", summary.succeeded,
		"failed", summary.failed,
		"canceled", summary.canceled,
		"duration", elapsed,
	)

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			log.Errorw("writing metrics", "path", cfg.Metrics.File, "err", err)
			if runErr == nil {
				return fmt.Errorf("%w: %v", docpost.ErrWriteOutput, err)
			}
		}
	}

	if runErr != nil {
		if summary.failed == 0 {
			return fmt.Errorf("run canceled: %w", runErr)
		}
		return fmt.Errorf("%d of %d page(s) failed: %w", summary.failed, len(results), runErr)
	}
	return nil
}

// loadEffectiveConfig resolves defaults, config file and env vars.
func loadEffectiveConfig(name string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				var searched []string
				if !fileutil.IsFilePath(name) {
					searched = config.SearchPaths(name)
				}
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searched))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *processFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.export != "" {
		cfg.Export.Path = flags.export
	}
	if flags.workersSet {
		cfg.Run.Workers = flags.workers
	}
	if flags.continueOnError {
		cfg.Run.Policy = config.PolicyContinue
	}
	if flags.strict {
		cfg.Parse.Strict = true
	}
	if flags.noHighlight {
		disabled := false
		cfg.Highlight.Enabled = &disabled
	}
	if flags.metricsFile != "" {
		cfg.Metrics.File = flags.metricsFile
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// loadExport reads the data export. No path embeds an empty object.
func loadExport(path string) (*docpost.Export, error) {
	if path == "" {
		return docpost.EmptyExport(), nil
	}
	export, err := docpost.LoadExport(path)
	if err != nil {
		return nil, fmt.Errorf("loading data export: %w", err)
	}
	return export, nil
}

// processorOptions translates the config into processor options.
func processorOptions(cfg *config.Config, log *zap.SugaredLogger) []docpost.Option {
	opts := []docpost.Option{
		docpost.WithLogger(log),
		docpost.WithStrictParsing(cfg.Parse.Strict),
		docpost.WithElementID(cfg.Export.ElementID),
		docpost.WithExample(docpost.ExampleOptions{
			Marker: cfg.Components.Example.Marker,
			Class:  cfg.Components.Example.Class,
		}),
		docpost.WithAssetPath(cfg.Assets.BasePath),
	}
	if cfg.Highlight.IsEnabled() {
		opts = append(opts, docpost.WithHighlight(docpost.HighlightOptions{
			ClassPrefix: cfg.Highlight.ClassPrefix,
			Aliases:     cfg.Highlight.Aliases,
		}))
	} else {
		opts = append(opts, docpost.WithoutHighlight())
	}
	return opts
}

// runSummary counts page outcomes.
type runSummary struct {
	succeeded int
	failed    int
	canceled  int
}

// printResults reports every page and returns the outcome counts.
func printResults(results []docpost.TaskResult, quiet, verbose bool, env *Environment) runSummary {
	var s runSummary

	for _, r := range results {
		switch {
		case r.Err == nil:
			s.succeeded++
			if quiet {
				continue
			}
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Task.InputPath, r.Task.OutputPath, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", r.Task.OutputPath)
			}
		case r.Err.Kind == docpost.KindCanceled:
			s.canceled++
			if verbose {
				fmt.Fprintf(env.Stderr, "SKIPPED %s\n", r.Task.InputPath)
			}
		default:
			s.failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Task.InputPath, r.Err.Err, hintFor(r.Err))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %d skipped\n", s.succeeded, s.failed, s.canceled)
	}

	return s
}

// hintFor returns the hint matching a page failure, if any.
func hintFor(err *docpost.TaskError) string {
	var sv *docpost.StructuralViolationError
	switch {
	case errors.As(err, &sv) && sv.HasChildren:
		return hints.ForStructuralViolation(sv.Tag)
	case errors.Is(err, docpost.ErrUnknownRecipe):
		return hints.ForUnknownRecipe()
	case err.Kind == docpost.KindParse:
		return hints.ForStrictParse()
	case errors.Is(err, docpost.ErrCreateDir):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
