package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpost [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  process     Post-process rendered HTML pages (default)")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docpost help <command>' for details on a specific command.")
}

// printProcessUsage prints usage for the process command.
func printProcessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpost process [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlight code, expand components and embed the data export")
	fmt.Fprintln(w, "into every HTML page under input.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory (default: input.dir, build/illuaminate)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: output.dir, build/jsxDocs)")
	fmt.Fprintln(w, "  -e, --export <file>       Data export JSON file")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding the embedded templates")
	fmt.Fprintln(w, "      --dry-run             List pages without processing them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Processing:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto, 1 = sequential)")
	fmt.Fprintln(w, "      --continue-on-error   Process every page even after a failure")
	fmt.Fprintln(w, "      --strict              Fail pages whose markup needed repair")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w, "      --metrics-file <file> Write Prometheus metrics in textfile format")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-page timing")
	fmt.Fprintln(w, "      --debug               Development logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOCPOST_CONFIG, DOCPOST_INPUT_DIR, DOCPOST_OUTPUT_DIR, DOCPOST_EXPORT,")
	fmt.Fprintln(w, "  DOCPOST_WORKERS, DOCPOST_POLICY, DOCPOST_METRICS_FILE")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage, 3 I/O, 4 page content")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpost config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration a run would use, after defaults,")
	fmt.Fprintln(w, "config file and DOCPOST_* variables are applied.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "process":
		printProcessUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docpost version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docpost help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
