package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	debug   bool
}

// processFlags holds all flags for the process command.
type processFlags struct {
	common          commonFlags
	output          string
	export          string
	workers         int
	workersSet      bool
	continueOnError bool
	strict          bool
	noHighlight     bool
	metricsFile     string
	assetPath       string
	dryRun          bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-page timing")
	fs.BoolVar(&f.debug, "debug", false, "development logging")
}

// addProcessFlags registers the process command flags on fs.
func addProcessFlags(fs *flag.FlagSet, f *processFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.export, "export", "e", "", "data export JSON file")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.continueOnError, "continue-on-error", false, "process every page even after a failure")
	fs.BoolVar(&f.strict, "strict", false, "fail pages with markup diagnostics")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the embedded templates")
	fs.BoolVar(&f.dryRun, "dry-run", false, "list the pages that would be processed")
	addCommonFlags(fs, &f.common)
}

// parseProcessFlags parses process command flags and returns positional args.
func parseProcessFlags(args []string, stderr io.Writer) (*processFlags, []string, error) {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &processFlags{}
	addProcessFlags(fs, f)
	fs.Usage = func() { printProcessUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.workersSet = fs.Changed("workers")

	return f, fs.Args(), nil
}

// parseConfigFlags parses the config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*commonFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commonFlags{}
	addCommonFlags(fs, f)
	fs.Usage = func() { printConfigUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
