package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches to a command and returns the process exit code.
// Without a known command name, arguments go to "process".
func run(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := "process", args
	if len(args) > 0 {
		switch args[0] {
		case "process", "config", "version", "help", "completion":
			cmd, rest = args[0], args[1:]
		case "-h", "--help":
			printUsage(env.Stdout)
			return ExitSuccess
		}
	}

	var err error
	switch cmd {
	case "process":
		err = runProcess(ctx, rest, env)
	case "config":
		err = runConfig(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "docpost %s\n", Version)
	case "help":
		runHelp(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
