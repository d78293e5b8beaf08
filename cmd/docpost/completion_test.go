package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{shell: ShellBash, want: []string{"complete -F _docpost docpost", "--continue-on-error", "--output|-o) COMPREPLY=($(compgen -d"}},
		{shell: ShellZsh, want: []string{"#compdef docpost", "'process:Post-process rendered HTML pages'", `{-e,--export}'[data export JSON file]:file:_files -g "*.json"'`}},
		{shell: ShellFish, want: []string{"complete -c docpost", "-l metrics-file -r", "-l workers -s w -r"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script should contain %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

func TestGetCommands_FlagsComeFromFlagSet(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	if cmds[0].Name != "process" {
		t.Fatalf("first command = %q, want process", cmds[0].Name)
	}

	byName := map[string]flagDef{}
	for _, f := range cmds[0].Flags {
		byName[f.Long] = f
	}
	for _, name := range []string{"output", "export", "workers", "strict", "no-highlight", "dry-run", "debug"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("process flag --%s missing from completion", name)
		}
	}
	if !byName["output"].IsDir || byName["strict"].TakesArg {
		t.Errorf("metadata not applied: output=%+v strict=%+v", byName["output"], byName["strict"])
	}
}
