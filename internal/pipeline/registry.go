package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Sentinel errors for registry construction.
var (
	ErrInvalidComponent   = errors.New("invalid component")
	ErrDuplicateComponent = errors.New("duplicate component tag")
	ErrInconsistentPolicy = errors.New("renderer bound with inconsistent children policy")
)

// RenderFunc produces the replacement for a matched element. It receives
// the element detached from the tree, with its children already
// expanded, and must not depend on state outside its input and the
// read-only values it closes over.
type RenderFunc func(n *html.Node) (*html.Node, error)

// AttrSpec declares one attribute a component understands.
type AttrSpec struct {
	Name     string
	Required bool
}

// Component binds a tag name to a renderer.
type Component struct {
	// Tag is the element name this component replaces.
	Tag string
	// Renderer names the render function. Tags sharing a renderer must
	// share its children policy.
	Renderer string
	// Attrs is the closed set of accepted attributes. Nil accepts any.
	Attrs []AttrSpec
	// AllowChildren false makes the element leaf-only.
	AllowChildren bool
	Render        RenderFunc
}

// Registry maps tag names to components. It has no mutating methods
// once built and may be shared between goroutines.
type Registry struct {
	byTag map[string]Component
}

// NewRegistry validates and indexes components.
func NewRegistry(components ...Component) (*Registry, error) {
	r := &Registry{byTag: make(map[string]Component, len(components))}
	policies := make(map[string]Component)

	for _, c := range components {
		c.Tag = strings.ToLower(strings.TrimSpace(c.Tag))
		if c.Tag == "" {
			return nil, fmt.Errorf("%w: empty tag", ErrInvalidComponent)
		}
		if c.Render == nil {
			return nil, fmt.Errorf("%w: <%s> has no render function", ErrInvalidComponent, c.Tag)
		}
		if c.Renderer == "" {
			c.Renderer = c.Tag
		}
		if _, exists := r.byTag[c.Tag]; exists {
			return nil, fmt.Errorf("%w: <%s>", ErrDuplicateComponent, c.Tag)
		}
		if prev, ok := policies[c.Renderer]; ok && prev.AllowChildren != c.AllowChildren {
			return nil, fmt.Errorf("%w: %q is bound to <%s> (allowChildren=%t) and <%s> (allowChildren=%t)",
				ErrInconsistentPolicy, c.Renderer, prev.Tag, prev.AllowChildren, c.Tag, c.AllowChildren)
		}
		policies[c.Renderer] = c
		r.byTag[c.Tag] = c
	}

	return r, nil
}

// Lookup returns the component registered for tag.
func (r *Registry) Lookup(tag string) (Component, bool) {
	c, ok := r.byTag[strings.ToLower(tag)]
	return c, ok
}

// Tags returns the registered tag names in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.byTag))
	for t := range r.byTag {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.byTag)
}
