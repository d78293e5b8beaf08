package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// completionMeta holds completion-specific metadata for flags.
// Flag names and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string // file glob pattern
	IsDir    bool   // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":       {FileGlob: "*.yaml,*.yml"},
	"export":       {FileGlob: "*.json"},
	"metrics-file": {FileGlob: "*.prom"},
	"output":       {IsDir: true},
	"asset-path":   {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	TakesArg bool
	FileGlob string
	IsDir    bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// extractFlags reads flag definitions from fs, enriched with
// flagCompletionMeta.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		meta := flagCompletionMeta[f.Name]
		flags = append(flags, flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			TakesArg: f.Value.Type() != "bool",
			FileGlob: meta.FileGlob,
			IsDir:    meta.IsDir,
		})
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	processFS := flag.NewFlagSet("process", flag.ContinueOnError)
	addProcessFlags(processFS, &processFlags{})
	configFS := flag.NewFlagSet("config", flag.ContinueOnError)
	addCommonFlags(configFS, &commonFlags{})

	return []commandDef{
		{Name: "process", Desc: "Post-process rendered HTML pages", Flags: extractFlags(processFS)},
		{Name: "config", Desc: "Print the effective configuration", Flags: extractFlags(configFS)},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for docpost\n")
	b.WriteString("_docpost() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ $COMP_CWORD -eq 1 && $cur != -* ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("    return\n  fi\n\n")

	b.WriteString("  case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if !f.TakesArg || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch {
			case f.IsDir:
				fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
			default:
				fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", pattern)
			}
		}
	}
	b.WriteString("  esac\n\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if c.Name == "completion" {
			b.WriteString("    completion) COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
			continue
		}
		if c.Name == "help" {
			fmt.Fprintf(&b, "    help) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(commandNames(cmds), " "))
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\")) ;;\n", c.Name, flagWords(c.Flags))
	}
	// Bare invocation defaults to process.
	fmt.Fprintf(&b, "    *) COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\")) ;;\n", flagWords(cmds[0].Flags))
	b.WriteString("  esac\n}\n")
	b.WriteString("complete -F _docpost docpost\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef docpost\n\n")
	b.WriteString("_docpost() {\n")
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n    _files -g '*.html'\n    return\n  fi\n\n")
	b.WriteString("  case $words[2] in\n")
	for _, c := range cmds {
		switch {
		case c.Name == "completion":
			b.WriteString("    completion) _values 'shell' bash zsh fish ;;\n")
		case c.Name == "help":
			b.WriteString("    help) _describe 'command' commands ;;\n")
		case len(c.Flags) > 0:
			fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
			for _, f := range c.Flags {
				fmt.Fprintf(&b, "        %s \\\n", zshSpec(f))
			}
			b.WriteString("        '*:input:_files -g \"*.html\"'\n      ;;\n")
		}
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("_docpost \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshSpec(f flagDef) string {
	name := "--" + f.Long
	if f.Short != "" {
		name = "{-" + f.Short + ",--" + f.Long + "}"
	}
	spec := "'[" + zshEscape(f.Desc) + "]"
	if f.TakesArg {
		switch {
		case f.IsDir:
			spec += ":dir:_directories"
		case f.FileGlob != "":
			spec += ":file:_files -g \"" + strings.ReplaceAll(f.FileGlob, ",", " ") + "\""
		default:
			spec += ":value:"
		}
	}
	return name + spec + "'"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for docpost\n")
	names := strings.Join(commandNames(cmds), " ")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c docpost -n 'not __fish_seen_subcommand_from %s' -a %s -d '%s'\n",
			names, c.Name, fishEscape(c.Desc))
	}
	b.WriteString("complete -c docpost -n '__fish_seen_subcommand_from completion' -f -a 'bash zsh fish'\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c docpost -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			if f.TakesArg {
				line += " -r"
				if f.IsDir {
					line += " -a '(__fish_complete_directories)'"
				}
			}
			line += " -d '" + fishEscape(f.Desc) + "'\n"
			b.WriteString(line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpost completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(docpost completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(docpost completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    docpost completion fish > ~/.config/fish/completions/docpost.fish")
}
