package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Doctype starts every page written by the shell.
const Doctype = "<!doctype HTML>"

// DefaultDataElementID is the id of the injected data block.
const DefaultDataElementID = "data-export"

// ErrShellRender indicates the data block template could not be rendered.
var ErrShellRender = errors.New("page shell rendering failed")

// ErrInvalidElementID indicates a data block id that would break out of
// its id attribute.
var ErrInvalidElementID = errors.New("invalid data element id")

// ShellData is passed to the data block template.
type ShellData struct {
	ID      string
	Payload string
}

// Shell wraps serialized pages with the doctype and the data block.
// The payload is fixed at construction, so every page of a run embeds
// the same value.
type Shell struct {
	block []byte
}

// NewShell renders the data block once from tmplContent.
// The payload is raw JSON, escaped so it cannot close the surrounding
// <script> element. The escaped text decodes to the same JSON value.
func NewShell(tmplContent, id string, payload []byte) (*Shell, error) {
	tmpl, err := template.New("data-block").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing data block template: %w", err)
	}

	if id == "" {
		id = DefaultDataElementID
	}
	if strings.ContainsAny(id, " \t\n\r\f\"'<>=/&`") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidElementID, id)
	}

	var buf bytes.Buffer
	data := ShellData{ID: id, Payload: sanitizeScript(string(payload))}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	return &Shell{block: buf.Bytes()}, nil
}

// Wrap returns the final page: doctype, then body with the data block
// inserted before </body>. Without </body> the block is appended.
func (s *Shell) Wrap(body []byte) []byte {
	out := make([]byte, 0, len(Doctype)+len(body)+len(s.block))
	out = append(out, Doctype...)

	if idx := lastIndexFold(body, "</body>"); idx != -1 {
		out = append(out, body[:idx]...)
		out = append(out, s.block...)
		return append(out, body[idx:]...)
	}

	out = append(out, body...)
	return append(out, s.block...)
}

// lastIndexFold returns the index of the last match of the ASCII pattern
// in body, ignoring ASCII case. Other bytes are compared as is, so the
// index always points into body.
func lastIndexFold(body []byte, pattern string) int {
	for i := len(body) - len(pattern); i >= 0; i-- {
		match := true
		for j := 0; j < len(pattern); j++ {
			b := body[i+j]
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			if b != pattern[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// sanitizeScript escapes sequences that could break out of a <script> block.
// "<" only appears inside JSON strings, where both escapes are legal.
func sanitizeScript(content string) string {
	content = strings.ReplaceAll(content, "</", `<\/`)
	return strings.ReplaceAll(content, "<!--", `\u003c!--`)
}
