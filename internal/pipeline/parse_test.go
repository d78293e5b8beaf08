package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Diagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantCount int
		wantMsg   string
		wantLine  int
	}{
		{
			name:      "well formed document",
			input:     "<!doctype html>\n<html><head><title>T</title></head>\n<body><p>Hi<p>There</body></html>",
			wantCount: 0,
		},
		{
			name:      "void elements need no end tag",
			input:     `<body><img src="a.png"><br><hr/></body>`,
			wantCount: 0,
		},
		{
			name:      "stray end tag",
			input:     "<body>\n<div>text</div></span>\n</body>",
			wantCount: 1,
			wantMsg:   "stray end tag </span>",
			wantLine:  2,
		},
		{
			name:      "element never closed",
			input:     "<body>\n\n<div>text\n</body>",
			wantCount: 1,
			wantMsg:   "<div> is not closed before </body>",
			wantLine:  3,
		},
		{
			name:      "unclosed at end of input",
			input:     "<section><em>text",
			wantCount: 2,
			wantMsg:   "<em> is never closed",
			wantLine:  1,
		},
		{
			name:      "self-closing custom element",
			input:     `<body><mc-recipe recipe="x"/><p>after</p></body>`,
			wantCount: 2,
			wantMsg:   "self-closing syntax on non-void element <mc-recipe/>",
			wantLine:  1,
		},
		{
			name:      "self-closing inside svg is fine",
			input:     `<body><svg><path d="M0 0"/><circle r="1"/></svg></body>`,
			wantCount: 0,
		},
		{
			name:      "duplicate attribute",
			input:     "<body>\n\n\n<a href=\"x\" HREF=\"y\">link</a></body>",
			wantCount: 1,
			wantMsg:   `duplicate attribute "href" on <a>`,
			wantLine:  4,
		},
		{
			name:      "script content is not markup",
			input:     `<body><script>if (a </b) { x = "</div>" }</script></body>`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(tt.input), ParseOptions{})
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if doc.Root == nil {
				t.Fatal("Parse() returned nil root")
			}

			if len(doc.Diagnostics) != tt.wantCount {
				t.Fatalf("got %d diagnostics %v, want %d", len(doc.Diagnostics), doc.Diagnostics, tt.wantCount)
			}
			if tt.wantMsg == "" {
				return
			}

			for _, d := range doc.Diagnostics {
				if strings.Contains(d.Message, tt.wantMsg) {
					if d.Line != tt.wantLine {
						t.Errorf("diagnostic %q at line %d, want line %d", d.Message, d.Line, tt.wantLine)
					}
					return
				}
			}
			t.Errorf("no diagnostic contains %q; got %v", tt.wantMsg, doc.Diagnostics)
		})
	}
}

func TestParse_Strict(t *testing.T) {
	t.Parallel()

	t.Run("clean input passes", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte("<p>ok</p>"), ParseOptions{Strict: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Diagnostics) != 0 {
			t.Errorf("unexpected diagnostics: %v", doc.Diagnostics)
		}
	})

	t.Run("diagnostics become ErrParse", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("<div>open"), ParseOptions{Strict: true})
		if !errors.Is(err, ErrParse) {
			t.Fatalf("error = %v, want ErrParse", err)
		}
		if !strings.Contains(err.Error(), "line 1") {
			t.Errorf("error %q should carry the diagnostic position", err)
		}
	})
}

func TestParse_KeepsTreeOfRepairedInput(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<body><mc-recipe recipe="x"/><p>after</p></body>`)

	recipe := findFirst(t, doc.Root, "mc-recipe")
	if recipe.FirstChild == nil || recipe.FirstChild.Data != "p" {
		t.Errorf("self-closed custom element should swallow the following <p>, got %q", renderNode(t, recipe))
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Line: 12, Message: "stray end tag </b>"}
	if got, want := d.String(), "line 12: stray end tag </b>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
