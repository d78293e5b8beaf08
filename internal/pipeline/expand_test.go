package pipeline

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// boxComponent renders <tag> as <div class="box">children</div>.
func boxComponent(tag string, allowChildren bool) Component {
	return Component{
		Tag:           tag,
		AllowChildren: allowChildren,
		Render: func(n *html.Node) (*html.Node, error) {
			div := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div",
				Attr: []html.Attribute{{Key: "class", Val: "box"}}}
			for c := n.FirstChild; c != nil; c = n.FirstChild {
				n.RemoveChild(c)
				div.AppendChild(c)
			}
			return div, nil
		},
	}
}

func mustRegistry(t *testing.T, components ...Component) *Registry {
	t.Helper()
	r, err := NewRegistry(components...)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

func expandString(t *testing.T, r *Registry, src string) (*Document, error) {
	t.Helper()
	doc := mustParse(t, src)
	return doc, NewExpander(r).Apply(doc)
}

func TestExpander_PassThrough(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-box", true))
	src := `<div id="a"><p>Hello <em>world</em></p><!-- note --><ul><li>1</li></ul></div>`

	doc := mustParse(t, src)
	before := renderNode(t, doc.Root)
	if err := NewExpander(r).Apply(doc); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if after := renderNode(t, doc.Root); after != before {
		t.Errorf("tree without registered tags changed:\nbefore %q\nafter  %q", before, after)
	}
	if len(doc.Stats.Expanded) != 0 {
		t.Errorf("Stats.Expanded = %v, want empty", doc.Stats.Expanded)
	}
}

func TestExpander_LeafOnly(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-leaf", false))

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "no children", input: `<x-leaf></x-leaf>`, wantErr: false},
		{name: "text child", input: `<x-leaf>text</x-leaf>`, wantErr: true},
		{name: "whitespace child", input: "<x-leaf> </x-leaf>", wantErr: true},
		{name: "element child", input: `<x-leaf><b>x</b></x-leaf>`, wantErr: true},
		{name: "comment child", input: `<x-leaf><!-- c --></x-leaf>`, wantErr: true},
		{name: "self-closing swallows sibling", input: `<div><x-leaf/><p>after</p></div>`, wantErr: true},
		{name: "nested in other markup", input: `<section><div><x-leaf></x-leaf></div></section>`, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := expandString(t, r, "<body>"+tt.input+"</body>")
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Apply() unexpected error: %v", err)
				}
				if len(findAll(doc.Root, "x-leaf")) != 0 {
					t.Error("x-leaf should have been replaced")
				}
				return
			}

			if !errors.Is(err, ErrStructuralViolation) {
				t.Fatalf("error = %v, want ErrStructuralViolation", err)
			}
			var sv *StructuralViolationError
			if !errors.As(err, &sv) {
				t.Fatalf("error %T is not *StructuralViolationError", err)
			}
			if sv.Tag != "x-leaf" {
				t.Errorf("Tag = %q, want x-leaf", sv.Tag)
			}
			if !strings.Contains(sv.Detail, "must not have children") || !sv.HasChildren {
				t.Errorf("Detail = %q, HasChildren = %t", sv.Detail, sv.HasChildren)
			}
		})
	}
}

func TestDescribeChildren(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text", text: "hi", want: `text "hi"`},
		{name: "ascii cut", text: strings.Repeat("a", 25), want: `text "` + strings.Repeat("a", 20) + `..."`},
		{name: "multi-byte cut", text: strings.Repeat("é", 19) + "Ⱥ日本", want: `text "` + strings.Repeat("é", 19) + `Ⱥ..."`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := element("x-leaf")
			n.AppendChild(&html.Node{Type: html.TextNode, Data: tt.text})
			got := describeChildren(n)
			if !utf8.ValidString(got) {
				t.Fatalf("describeChildren() = %q is not valid UTF-8", got)
			}
			if got != tt.want {
				t.Errorf("describeChildren() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpander_ChildrenExpandedFirst(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-outer", true), boxComponent("x-inner", false))

	doc, err := expandString(t, r, `<body><x-outer>a<x-inner></x-inner>b</x-outer></body>`)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	body := findFirst(t, doc.Root, "body")
	got := renderNode(t, body)
	want := `<body><div class="box">a<div class="box"></div>b</div></body>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if doc.Stats.Expanded["x-outer"] != 1 || doc.Stats.Expanded["x-inner"] != 1 {
		t.Errorf("Stats.Expanded = %v", doc.Stats.Expanded)
	}
}

func TestExpander_OutputNotReexpanded(t *testing.T) {
	t.Parallel()

	calls := 0
	r := mustRegistry(t, Component{
		Tag:           "x-self",
		AllowChildren: true,
		Render: func(n *html.Node) (*html.Node, error) {
			calls++
			return &html.Node{Type: html.ElementNode, Data: "x-self"}, nil
		},
	})

	doc, err := expandString(t, r, `<body><x-self></x-self></body>`)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
	if len(findAll(doc.Root, "x-self")) != 1 {
		t.Error("rendered output should be kept as returned")
	}
}

func TestExpander_PreservesPosition(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-box", true))

	doc, err := expandString(t, r, `<body><p>1</p><x-box>2</x-box><p>3</p></body>`)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	body := findFirst(t, doc.Root, "body")
	if got, want := renderNode(t, body), `<body><p>1</p><div class="box">2</div><p>3</p></body>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpander_Attributes(t *testing.T) {
	t.Parallel()

	comp := boxComponent("x-attr", false)
	comp.Attrs = []AttrSpec{{Name: "id", Required: true}, {Name: "mode"}}
	r := mustRegistry(t, comp)

	tests := []struct {
		name       string
		input      string
		wantDetail string
	}{
		{name: "required only", input: `<x-attr id="a"></x-attr>`},
		{name: "required and optional", input: `<x-attr id="a" mode="b"></x-attr>`},
		{name: "missing required", input: `<x-attr mode="b"></x-attr>`, wantDetail: `requires attribute "id"`},
		{name: "unknown attribute", input: `<x-attr id="a" color="red"></x-attr>`, wantDetail: `does not accept attribute "color"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := expandString(t, r, "<body>"+tt.input+"</body>")
			if tt.wantDetail == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrStructuralViolation) {
				t.Fatalf("error = %v, want ErrStructuralViolation", err)
			}
			if !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error %q should contain %q", err, tt.wantDetail)
			}
		})
	}
}

func TestExpander_RenderErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	attached := &html.Node{Type: html.ElementNode, Data: "span"}
	holder := &html.Node{Type: html.ElementNode, Data: "div"}
	holder.AppendChild(attached)

	tests := []struct {
		name    string
		render  RenderFunc
		wantErr error
	}{
		{
			name:    "renderer error",
			render:  func(*html.Node) (*html.Node, error) { return nil, errBoom },
			wantErr: errBoom,
		},
		{
			name:    "nil node",
			render:  func(*html.Node) (*html.Node, error) { return nil, nil },
			wantErr: ErrRender,
		},
		{
			name:    "attached node",
			render:  func(*html.Node) (*html.Node, error) { return attached, nil },
			wantErr: ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := mustRegistry(t, Component{Tag: "x-bad", AllowChildren: true, Render: tt.render})
			_, err := expandString(t, r, `<body><x-bad></x-bad></body>`)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrRender) {
				t.Errorf("error = %v, should wrap ErrRender", err)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	render := func(*html.Node) (*html.Node, error) { return &html.Node{Type: html.TextNode}, nil }

	tests := []struct {
		name       string
		components []Component
		wantErr    error
		wantTags   []string
	}{
		{
			name:       "empty registry",
			components: nil,
			wantTags:   []string{},
		},
		{
			name: "aliases share a renderer",
			components: []Component{
				{Tag: "mc-recipe", Renderer: "recipe", Render: render},
				{Tag: "MCRecipe", Renderer: "recipe", Render: render},
			},
			wantTags: []string{"mc-recipe", "mcrecipe"},
		},
		{
			name: "duplicate tag",
			components: []Component{
				{Tag: "x-a", Render: render},
				{Tag: "X-A", Render: render},
			},
			wantErr: ErrDuplicateComponent,
		},
		{
			name: "inconsistent children policy",
			components: []Component{
				{Tag: "x-a", Renderer: "shared", Render: render},
				{Tag: "x-b", Renderer: "shared", AllowChildren: true, Render: render},
			},
			wantErr: ErrInconsistentPolicy,
		},
		{
			name:       "empty tag",
			components: []Component{{Tag: " ", Render: render}},
			wantErr:    ErrInvalidComponent,
		},
		{
			name:       "missing render function",
			components: []Component{{Tag: "x-a"}},
			wantErr:    ErrInvalidComponent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewRegistry(tt.components...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tags := r.Tags()
			if len(tags) != len(tt.wantTags) {
				t.Fatalf("Tags() = %v, want %v", tags, tt.wantTags)
			}
			for i := range tags {
				if tags[i] != tt.wantTags[i] {
					t.Errorf("Tags()[%d] = %q, want %q", i, tags[i], tt.wantTags[i])
				}
			}
			if r.Len() != len(tt.wantTags) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.wantTags))
			}
		})
	}
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := mustRegistry(t, boxComponent("x-box", true))
	if _, ok := r.Lookup("X-Box"); !ok {
		t.Error("Lookup should ignore case")
	}
	if _, ok := r.Lookup("x-other"); ok {
		t.Error("Lookup found an unregistered tag")
	}
}
