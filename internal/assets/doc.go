// Package assets provides the HTML templates injected into processed pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the processor. It tries the custom
// FilesystemLoader first and falls back to the embedded templates when
// the custom directory does not provide one.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.html          # e.g. data-block.html
//
// Templates are text/template sources. The data block template receives
// the element id as {{.ID}} and the escaped export as {{.Payload}}.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
