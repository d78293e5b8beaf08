package docpost

import (
	"go.uber.org/zap"

	"github.com/alnah/go-docpost/internal/components"
	"github.com/alnah/go-docpost/internal/metrics"
	"github.com/alnah/go-docpost/internal/pipeline"
)

// HighlightOptions configures code block highlighting.
type HighlightOptions = pipeline.HighlightOptions

// ExampleOptions configures the example wrapper.
type ExampleOptions = components.ExampleOptions

// Recorder receives processing metrics.
type Recorder = metrics.Recorder

// Option configures a Processor.
type Option func(*processorConfig)

type processorConfig struct {
	strict      bool
	highlight   bool
	highlightOp HighlightOptions
	example     ExampleOptions
	elementID   string
	assetPath   string
	logger      *zap.SugaredLogger
	recorder    Recorder
}

func defaultProcessorConfig() processorConfig {
	return processorConfig{
		highlight: true,
		elementID: pipeline.DefaultDataElementID,
		logger:    zap.NewNop().Sugar(),
		recorder:  metrics.NoopRecorder{},
	}
}

// WithStrictParsing makes pages with parse diagnostics fail with ErrParse.
func WithStrictParsing(strict bool) Option {
	return func(c *processorConfig) {
		c.strict = strict
	}
}

// WithHighlight enables highlighting with the given options.
func WithHighlight(opts HighlightOptions) Option {
	return func(c *processorConfig) {
		c.highlight = true
		c.highlightOp = opts
	}
}

// WithoutHighlight disables highlighting.
func WithoutHighlight() Option {
	return func(c *processorConfig) {
		c.highlight = false
	}
}

// WithExample configures the example wrapper marker and class.
func WithExample(opts ExampleOptions) Option {
	return func(c *processorConfig) {
		c.example = opts
	}
}

// WithElementID sets the id of the injected data block. NewProcessor
// rejects ids with whitespace, quotes or markup characters.
func WithElementID(id string) Option {
	return func(c *processorConfig) {
		if id != "" {
			c.elementID = id
		}
	}
}

// WithAssetPath sets a custom directory whose templates/ override the
// embedded ones.
func WithAssetPath(path string) Option {
	return func(c *processorConfig) {
		c.assetPath = path
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *processorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r Recorder) Option {
	return func(c *processorConfig) {
		if r != nil {
			c.recorder = r
		}
	}
}
