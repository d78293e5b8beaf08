// Package docpost post-processes rendered documentation pages.
//
// # Quick Start
//
// Load the data export, build a processor and run it over the pages:
//
//	export, err := docpost.LoadExport("src/export/index.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	proc, err := docpost.NewProcessor(export)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := docpost.Run(ctx, proc, []docpost.FileTask{
//	    {InputPath: "build/illuaminate/index.html", OutputPath: "build/jsxDocs/index.html"},
//	}, docpost.RunOptions{Workers: 4})
//
// # Processing Pipeline
//
// Every page goes through the same stages:
//
//  1. Parsing into a tree; malformed markup is repaired and reported as diagnostics
//  2. Syntax highlighting of <pre><code class="language-X"> blocks (Chroma)
//  3. Expansion of the fixed component set: example <pre> wrapping and
//     <mc-recipe>/<mcrecipe> cards
//  4. Serialization back to HTML
//  5. Page shell: doctype plus a <script type="application/json"> block
//     holding the data export
//
// # Configuration
//
// Use functional options to customize the processor:
//
//	proc, err := docpost.NewProcessor(export,
//	    docpost.WithStrictParsing(true),
//	    docpost.WithHighlight(docpost.HighlightOptions{ClassPrefix: "hl-"}),
//	    docpost.WithLogger(logger.Sugar()),
//	)
//
// # Concurrency
//
// A Processor is read-only after construction and may be shared by any
// number of goroutines. Run processes tasks sequentially when
// RunOptions.Workers is 1 or less and with a bounded worker pool
// otherwise. Under PolicyFailFast the first failure cancels the tasks
// that have not started; PolicyContinue processes every task and
// reports all failures.
package docpost
