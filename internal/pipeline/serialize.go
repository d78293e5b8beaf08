package pipeline

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// Serialize renders the document back to HTML text.
// The doctype is left out; the page shell writes its own.
func Serialize(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	for c := doc.Root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			continue
		}
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("rendering HTML: %w", err)
		}
	}
	return buf.Bytes(), nil
}
