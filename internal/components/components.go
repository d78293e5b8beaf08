package components

import (
	"github.com/alnah/go-docpost/internal/dataexport"
	"github.com/alnah/go-docpost/internal/pipeline"
)

// Options configures the component set.
type Options struct {
	Example ExampleOptions
	Export  *dataexport.Export
}

// All returns every component of the set.
func All(opts Options) []pipeline.Component {
	return append([]pipeline.Component{Example(opts.Example)}, Recipe(opts.Export)...)
}

// NewRegistry builds the registry of the full component set.
func NewRegistry(opts Options) (*pipeline.Registry, error) {
	return pipeline.NewRegistry(All(opts)...)
}
