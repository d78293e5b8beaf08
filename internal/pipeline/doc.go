// Package pipeline implements the HTML post-processing stages applied to
// every rendered documentation page.
//
// A page flows through these stages:
//   - Parse: HTML text to a *html.Node tree, with authoring diagnostics
//   - Highlight: syntax highlighting of <pre><code class="language-X"> blocks via Chroma
//   - Expand: replacement of registered elements by their component renderers
//   - Serialize: the tree back to HTML text
//   - Shell: doctype plus the embedded JSON data block
//
// Highlight and Expand are Transforms and are composed with Chain. The
// Registry used by Expand is built once and only read afterwards, so a
// single Registry, Highlighter and Shell can serve concurrent pages.
//
// File discovery, output paths and the run policy live in the root
// docpost package; this package never touches the filesystem.
package pipeline
