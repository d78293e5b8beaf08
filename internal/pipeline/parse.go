package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrParse indicates the input could not be turned into a document, or
// that strict parsing rejected a document carrying diagnostics.
var ErrParse = errors.New("HTML parse failed")

// Diagnostic is a recoverable authoring problem found while parsing.
// The parser repairs the tree the way a browser would; the diagnostic
// records what it had to repair.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// Stats counts what the transforms did to one document.
type Stats struct {
	Highlighted map[string]int // code blocks per language
	Expanded    map[string]int // replaced elements per tag
}

func (s *Stats) addHighlighted(lang string) {
	if s.Highlighted == nil {
		s.Highlighted = make(map[string]int)
	}
	s.Highlighted[lang]++
}

func (s *Stats) addExpanded(tag string) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]int)
	}
	s.Expanded[tag]++
}

// Document is one parsed page. It is created per file, mutated in place
// by the transforms and discarded after serialization.
type Document struct {
	Root        *html.Node
	Diagnostics []Diagnostic
	Stats       Stats
}

// ParseOptions controls parsing.
type ParseOptions struct {
	// Strict turns any diagnostic into an ErrParse failure.
	Strict bool
}

// Parse builds a Document from HTML text.
// Malformed markup is repaired and reported as diagnostics; only an
// unreadable token stream (or strict mode with diagnostics) fails.
func Parse(src []byte, opts ParseOptions) (*Document, error) {
	diags, err := scanDiagnostics(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if opts.Strict && len(diags) > 0 {
		return nil, fmt.Errorf("%w: %s (%d diagnostic(s))", ErrParse, diags[0], len(diags))
	}

	return &Document{Root: root, Diagnostics: diags}, nil
}

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// optionalEndTag lists elements whose end tag may be omitted.
var optionalEndTag = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "option": true, "optgroup": true, "tr": true,
	"td": true, "th": true, "thead": true, "tbody": true, "tfoot": true,
	"colgroup": true, "caption": true, "rb": true, "rt": true, "rtc": true,
	"rp": true,
}

type openElement struct {
	name string
	line int
}

// scanDiagnostics tokenizes src and reports markup the tree builder will
// have to repair: stray end tags, unclosed elements, self-closing syntax
// on non-void HTML elements and duplicate attributes.
func scanDiagnostics(src []byte) ([]Diagnostic, error) {
	var (
		diags []Diagnostic
		stack []openElement
		line  = 1
	)

	report := func(l int, format string, args ...any) {
		diags = append(diags, Diagnostic{Line: l, Message: fmt.Sprintf(format, args...)})
	}

	inForeign := func() bool {
		for _, e := range stack {
			if e.name == "svg" || e.name == "math" {
				return true
			}
		}
		return false
	}

	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		tokLine := line
		line += bytes.Count(z.Raw(), []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				for i := len(stack) - 1; i >= 0; i-- {
					if !optionalEndTag[stack[i].name] {
						report(stack[i].line, "<%s> is never closed", stack[i].name)
					}
				}
				return diags, nil
			}
			return diags, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if hasAttr {
				checkDuplicateAttrs(z, tag, tokLine, report)
			}
			if voidElements[tag] {
				continue
			}
			if tt == html.SelfClosingTagToken {
				if inForeign() {
					continue
				}
				report(tokLine, "self-closing syntax on non-void element <%s/> is ignored; following content becomes its children", tag)
			}
			stack = append(stack, openElement{name: tag, line: tokLine})

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == tag {
					idx = i
					break
				}
			}
			if idx < 0 {
				if !optionalEndTag[tag] {
					report(tokLine, "stray end tag </%s>", tag)
				}
				continue
			}
			for i := len(stack) - 1; i > idx; i-- {
				if !optionalEndTag[stack[i].name] {
					report(stack[i].line, "<%s> is not closed before </%s>", stack[i].name, tag)
				}
			}
			stack = stack[:idx]
		}
	}
}

func checkDuplicateAttrs(z *html.Tokenizer, tag string, line int, report func(int, string, ...any)) {
	seen := make(map[string]bool)
	for {
		key, _, more := z.TagAttr()
		k := strings.ToLower(string(key))
		if seen[k] {
			report(line, "duplicate attribute %q on <%s>", k, tag)
		}
		seen[k] = true
		if !more {
			return
		}
	}
}
