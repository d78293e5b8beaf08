package assets

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

// DataBlockTemplate is the template of the <script> block carrying the
// data export.
const DataBlockTemplate = "data-block"

// Sentinel errors for template loading.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// AssetLoader loads a template by name, without the .html extension.
// Missing templates are reported as ErrTemplateNotFound and unsafe names
// as ErrInvalidAssetName.
type AssetLoader interface {
	LoadTemplate(name string) (string, error)
}

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader serves the templates compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// ValidateAssetName rejects blank names and names containing path
// separators or dots, so a name always maps to one file in templates/.
func ValidateAssetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ AssetLoader = (*EmbeddedLoader)(nil)
	_ AssetLoader = (*FilesystemLoader)(nil)
	_ AssetLoader = (*AssetResolver)(nil)
)
