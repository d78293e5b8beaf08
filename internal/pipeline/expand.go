package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Sentinel errors for expansion.
var (
	ErrStructuralViolation = errors.New("structural violation")
	ErrRender              = errors.New("component render failed")
)

// StructuralViolationError reports a registered element used in a shape
// its component forbids: children on a leaf-only element, a missing
// required attribute or an attribute outside the declared set.
type StructuralViolationError struct {
	Tag         string
	Detail      string
	HasChildren bool // a leaf-only element had content
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("%v: <%s> %s", ErrStructuralViolation, e.Tag, e.Detail)
}

func (e *StructuralViolationError) Unwrap() error { return ErrStructuralViolation }

// Expander is the expansion transform over a Registry.
type Expander struct {
	registry *Registry
}

// NewExpander creates the expansion transform for r.
func NewExpander(r *Registry) *Expander {
	return &Expander{registry: r}
}

// Compile-time interface check.
var _ Transform = (*Expander)(nil)

func (e *Expander) Name() string { return "expand" }

// Apply replaces every registered element of the document by its
// rendered output. Unregistered elements are kept and their children
// are expanded.
func (e *Expander) Apply(doc *Document) error {
	return e.expandChildren(doc.Root, &doc.Stats)
}

func (e *Expander) expandChildren(parent *html.Node, stats *Stats) error {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if err := e.expandElement(parent, c, next, stats); err != nil {
				return err
			}
		}
		c = next
	}
	return nil
}

func (e *Expander) expandElement(parent, n, next *html.Node, stats *Stats) error {
	comp, ok := e.registry.Lookup(n.Data)
	if !ok || n.Namespace != "" {
		return e.expandChildren(n, stats)
	}

	if !comp.AllowChildren && n.FirstChild != nil {
		return &StructuralViolationError{
			Tag:         n.Data,
			Detail:      fmt.Sprintf("must not have children (found %s)", describeChildren(n)),
			HasChildren: true,
		}
	}
	if err := checkAttrs(comp, n); err != nil {
		return err
	}
	if err := e.expandChildren(n, stats); err != nil {
		return err
	}

	parent.RemoveChild(n)
	out, err := comp.Render(n)
	if err != nil {
		return fmt.Errorf("%w: <%s>: %w", ErrRender, n.Data, err)
	}
	if out == nil {
		return fmt.Errorf("%w: <%s>: renderer returned no node", ErrRender, n.Data)
	}
	if out.Parent != nil || out.PrevSibling != nil || out.NextSibling != nil {
		return fmt.Errorf("%w: <%s>: renderer returned an attached node", ErrRender, n.Data)
	}
	parent.InsertBefore(out, next)
	stats.addExpanded(comp.Tag)
	return nil
}

// checkAttrs enforces the component's closed attribute set.
func checkAttrs(comp Component, n *html.Node) error {
	if comp.Attrs == nil {
		return nil
	}
	known := make(map[string]bool, len(comp.Attrs))
	for _, spec := range comp.Attrs {
		known[spec.Name] = true
		if spec.Required && !hasAttr(n, spec.Name) {
			return &StructuralViolationError{Tag: n.Data, Detail: fmt.Sprintf("requires attribute %q", spec.Name)}
		}
	}
	for _, a := range n.Attr {
		if a.Namespace != "" || !known[a.Key] {
			return &StructuralViolationError{Tag: n.Data, Detail: fmt.Sprintf("does not accept attribute %q", a.Key)}
		}
	}
	return nil
}

// describeChildren summarises the first child for error messages.
func describeChildren(n *html.Node) string {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	first := n.FirstChild
	var what string
	switch first.Type {
	case html.ElementNode:
		what = "<" + first.Data + ">"
	case html.TextNode:
		text := strings.TrimSpace(first.Data)
		if runes := []rune(text); len(runes) > 20 {
			text = string(runes[:20]) + "..."
		}
		what = fmt.Sprintf("text %q", text)
	default:
		what = "a comment"
	}
	if count == 1 {
		return what
	}
	return fmt.Sprintf("%s and %d more", what, count-1)
}
