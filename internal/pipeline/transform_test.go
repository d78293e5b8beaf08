package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func appendStage(name string, log *[]string) Transform {
	return TransformFunc{StageName: name, Fn: func(*Document) error {
		*log = append(*log, name)
		return nil
	}}
}

func TestChain_OrderAndName(t *testing.T) {
	t.Parallel()

	var log []string
	c := Chain(appendStage("a", &log), nil, appendStage("b", &log), appendStage("c", &log))

	if got := c.Name(); got != "a+b+c" {
		t.Errorf("Name() = %q, want a+b+c", got)
	}
	if err := c.Apply(mustParse(t, "<p>x</p>")); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := strings.Join(log, ","); got != "a,b,c" {
		t.Errorf("stages ran as %q, want a,b,c", got)
	}
}

func TestChain_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	errStage := errors.New("stage failed")
	var log []string
	c := Chain(
		appendStage("a", &log),
		TransformFunc{StageName: "bad", Fn: func(*Document) error { return errStage }},
		appendStage("c", &log),
	)

	err := c.Apply(mustParse(t, "<p>x</p>"))
	if !errors.Is(err, errStage) {
		t.Fatalf("error = %v, want %v", err, errStage)
	}
	if !strings.HasPrefix(err.Error(), "bad: ") {
		t.Errorf("error %q should name the failing stage", err)
	}
	if len(log) != 1 {
		t.Errorf("stages after the failure ran: %v", log)
	}
}

func TestChain_HighlightThenExpand(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-box", true))
	c := Chain(NewHighlighter(HighlightOptions{}), NewExpander(r))

	doc := mustParse(t, `<x-box><pre><code class="language-lua">local a = 1</code></pre></x-box>`)
	if err := c.Apply(doc); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	box := findFirst(t, doc.Root, "div")
	if len(findAll(box, "span")) == 0 {
		t.Error("highlighted code should be carried into the rendered component")
	}
	if doc.Stats.Highlighted["lua"] != 1 || doc.Stats.Expanded["x-box"] != 1 {
		t.Errorf("Stats = %+v", doc.Stats)
	}
}
