package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HighlightOptions configures the highlight transform.
type HighlightOptions struct {
	// ClassPrefix is prepended to every token class (Chroma short names such as "k", "s2").
	ClassPrefix string
	// Aliases maps a language marker to the Chroma lexer name to use.
	Aliases map[string]string
}

// Highlighter replaces the text of marked code blocks with token spans.
// It holds no per-document state and is safe for concurrent use.
type Highlighter struct {
	prefix  string
	aliases map[string]string
}

// NewHighlighter creates a Highlighter.
func NewHighlighter(opts HighlightOptions) *Highlighter {
	aliases := make(map[string]string, len(opts.Aliases))
	for k, v := range opts.Aliases {
		aliases[strings.ToLower(k)] = v
	}
	return &Highlighter{prefix: opts.ClassPrefix, aliases: aliases}
}

// Compile-time interface check.
var _ Transform = (*Highlighter)(nil)

func (h *Highlighter) Name() string { return "highlight" }

// Apply highlights every <pre><code class="language-X"> block whose
// language Chroma knows. Other blocks, and every node outside code
// blocks, are left untouched.
func (h *Highlighter) Apply(doc *Document) error {
	var blocks []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isCodeBlock(n) {
			blocks = append(blocks, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.Root)

	for _, code := range blocks {
		lang, ok := languageOf(code)
		if !ok {
			continue
		}
		if h.highlightBlock(code, lang) {
			doc.Stats.addHighlighted(lang)
		}
	}
	return nil
}

// isCodeBlock reports whether n is a <code> element directly inside <pre>.
func isCodeBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Code &&
		n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.DataAtom == atom.Pre
}

// languageOf extracts the language from a language-X or lang-X class.
// no-highlight and nohighlight opt a block out.
func languageOf(n *html.Node) (string, bool) {
	lang := ""
	for _, class := range strings.Fields(getAttr(n, "class")) {
		switch {
		case class == "no-highlight" || class == "nohighlight":
			return "", false
		case lang != "":
		case strings.HasPrefix(class, "language-"):
			lang = strings.TrimPrefix(class, "language-")
		case strings.HasPrefix(class, "lang-"):
			lang = strings.TrimPrefix(class, "lang-")
		}
	}
	return strings.ToLower(lang), lang != ""
}

// highlightBlock tokenises the text of code and swaps its children for
// token spans. Returns false when the block was left as is.
func (h *Highlighter) highlightBlock(code *html.Node, lang string) bool {
	src, ok := textOnly(code)
	if !ok || src == "" {
		return false
	}

	lexer := h.lexerFor(lang)
	if lexer == nil {
		return false
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return false
	}
	tokens := it.Tokens()
	if !trimToSource(tokens, src) {
		return false
	}

	for c := code.FirstChild; c != nil; c = code.FirstChild {
		code.RemoveChild(c)
	}
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		class := h.classFor(tok.Type)
		if class == "" {
			// Adjacent plain tokens share one text node, as a reparse would.
			if last := code.LastChild; last != nil && last.Type == html.TextNode {
				last.Data += tok.Value
			} else {
				code.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Value})
			}
			continue
		}
		text := &html.Node{Type: html.TextNode, Data: tok.Value}
		span := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Span,
			Data:     "span",
			Attr:     []html.Attribute{{Key: "class", Val: class}},
		}
		span.AppendChild(text)
		code.AppendChild(span)
	}
	return true
}

func (h *Highlighter) lexerFor(lang string) chroma.Lexer {
	if alias, ok := h.aliases[lang]; ok {
		lang = alias
	}
	return lexers.Get(lang)
}

// classFor resolves the CSS class of a token type, walking up to its
// sub-category and category when the exact type has no class.
// Plain text and whitespace get no span.
func (h *Highlighter) classFor(t chroma.TokenType) string {
	if t == chroma.Text || t == chroma.TextWhitespace {
		return ""
	}
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if class, ok := chroma.StandardTypes[candidate]; ok {
			if class == "" {
				return ""
			}
			return h.prefix + class
		}
	}
	return ""
}

// trimToSource makes the token text match src exactly. Lexers configured
// with EnsureNL append a newline; that newline is removed from the last
// token. Any other difference reports false.
func trimToSource(tokens []chroma.Token, src string) bool {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Value)
	}
	got := sb.String()
	if got == src {
		return true
	}
	if got != src+"\n" {
		return false
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Value == "" {
			continue
		}
		tokens[i].Value = strings.TrimSuffix(tokens[i].Value, "\n")
		return true
	}
	return false
}

// textOnly returns the concatenated text of n when all its children are
// text nodes.
func textOnly(n *html.Node) (string, bool) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			return "", false
		}
		sb.WriteString(c.Data)
	}
	return sb.String(), true
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether n carries the named attribute.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return true
		}
	}
	return false
}
