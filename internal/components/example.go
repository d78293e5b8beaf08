package components

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-docpost/internal/pipeline"
)

// Example wrapper defaults.
const (
	DefaultExampleMarker = "data-lua-kind"
	DefaultExampleClass  = "lua-example"
)

// ExampleOptions configures the example wrapper.
type ExampleOptions struct {
	// Marker is the attribute that flags a <pre> as a runnable example.
	Marker string
	// Class is the class of the wrapping <div>.
	Class string
}

func (o ExampleOptions) withDefaults() ExampleOptions {
	if o.Marker == "" {
		o.Marker = DefaultExampleMarker
	}
	if o.Class == "" {
		o.Class = DefaultExampleClass
	}
	return o
}

// Example returns the <pre> component. A <pre> with a non-empty marker
// attribute is wrapped in <div class="CLASS">; any other <pre> is
// returned unchanged.
func Example(opts ExampleOptions) pipeline.Component {
	opts = opts.withDefaults()
	return pipeline.Component{
		Tag:           "pre",
		Renderer:      "example",
		AllowChildren: true,
		Render: func(n *html.Node) (*html.Node, error) {
			if attr(n, opts.Marker) == "" {
				return n, nil
			}
			div := newElement("div", "class", opts.Class)
			div.AppendChild(n)
			return div, nil
		},
	}
}
