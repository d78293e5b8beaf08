package docpost

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-docpost/internal/assets"
	"github.com/alnah/go-docpost/internal/components"
	"github.com/alnah/go-docpost/internal/pipeline"
)

// Diagnostic is a markup problem the parser repaired.
type Diagnostic = pipeline.Diagnostic

// Stats counts what the transforms did to one page.
type Stats = pipeline.Stats

// Result is one processed page.
type Result struct {
	HTML        []byte
	Diagnostics []Diagnostic
	Stats       Stats
}

// Processor turns one rendered page into its final form.
// Create with NewProcessor; it is safe for concurrent use.
type Processor struct {
	cfg       processorConfig
	registry  *pipeline.Registry
	transform pipeline.Transform
	shell     *pipeline.Shell
}

// NewProcessor builds the transform chain and the page shell around export.
// A nil export embeds "{}".
func NewProcessor(export *Export, opts ...Option) (*Processor, error) {
	cfg := defaultProcessorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if export == nil {
		export = EmptyExport()
	}

	loader, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	tmpl, err := loader.LoadTemplate(assets.DataBlockTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading data block template: %w", err)
	}
	shell, err := pipeline.NewShell(tmpl, cfg.elementID, export.Raw())
	if err != nil {
		return nil, fmt.Errorf("initializing page shell: %w", err)
	}

	registry, err := components.NewRegistry(components.Options{Example: cfg.example, Export: export})
	if err != nil {
		return nil, fmt.Errorf("building component registry: %w", err)
	}

	var highlighter pipeline.Transform
	if cfg.highlight {
		highlighter = pipeline.NewHighlighter(cfg.highlightOp)
	}

	p := &Processor{
		cfg:       cfg,
		registry:  registry,
		transform: pipeline.Chain(highlighter, pipeline.NewExpander(registry)),
		shell:     shell,
	}
	cfg.logger.Debugw("processor ready",
		"stages", p.transform.Name(),
		"components", registry.Tags(),
		"export_keys", export.Len(),
		"custom_assets", loader.HasCustomLoader(),
	)
	return p, nil
}

// Components returns the tags the processor expands.
func (p *Processor) Components() []string {
	return p.registry.Tags()
}

// Process parses src, applies the transforms and returns the final page.
// Recovers from panics raised by component renderers.
func (p *Processor) Process(ctx context.Context, src []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", pipeline.ErrRender, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pipeline.Parse(src, pipeline.ParseOptions{Strict: p.cfg.strict})
	if err != nil {
		return nil, err
	}
	if err := p.transform.Apply(doc); err != nil {
		return &Result{Diagnostics: doc.Diagnostics, Stats: doc.Stats}, err
	}

	body, err := pipeline.Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrRender, err)
	}

	p.record(doc)
	return &Result{
		HTML:        p.shell.Wrap(body),
		Diagnostics: doc.Diagnostics,
		Stats:       doc.Stats,
	}, nil
}

// record reports the document counters to the recorder.
func (p *Processor) record(doc *pipeline.Document) {
	p.cfg.recorder.AddParseDiagnostics(len(doc.Diagnostics))
	for tag, n := range doc.Stats.Expanded {
		p.cfg.recorder.AddComponentsExpanded(tag, n)
	}
	for lang, n := range doc.Stats.Highlighted {
		p.cfg.recorder.AddCodeBlocksHighlighted(lang, n)
	}
}

func (p *Processor) logger() *zap.SugaredLogger {
	return p.cfg.logger
}
