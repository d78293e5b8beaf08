// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/docpost/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/docpost") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStructuralViolation returns hints for misused custom elements.
func ForStructuralViolation(tag string) string {
	if tag == "" {
		return ""
	}
	return format("write <" + tag + "></" + tag + "> with nothing inside; " +
		"self-closing <" + tag + "/> makes the following content its children")
}

// ForUnknownRecipe returns hints for recipes missing from the data export.
func ForUnknownRecipe() string {
	return format("check the recipe id against the data export given with --export")
}

// ForStrictParse returns hints for pages rejected by strict parsing.
func ForStrictParse() string {
	return format("fix the reported line, or drop --strict to accept the browser-style repair")
}

// ForInputNotFound returns hints for a missing input directory.
func ForInputNotFound() string {
	return format("pass the rendered pages directory as argument or set input.dir")
}

// filepathSlash normalises Windows separators for matching.
func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
