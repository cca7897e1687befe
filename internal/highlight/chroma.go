package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Chroma highlights with the lexer matching the file name (or guessed from
// the content) and takes span colours from a chroma style.
type Chroma struct {
	style *chroma.Style
}

// NewChroma creates a chroma engine using the named style, falling back to
// chroma's default style when the name is unknown.
func NewChroma(styleName string) *Chroma {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Chroma{style: style}
}

// Highlight tokenises the joined blocks and cuts the tokens back into
// per-block spans.
func (c *Chroma) Highlight(path string, blocks []string) [][]Span {
	out := make([][]Span, len(blocks))
	text := strings.Join(blocks, "\n")

	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return out
	}

	block, offset := 0, 0
	for _, token := range iterator.Tokens() {
		style := categorize(token.Type)
		color := ""
		if entry := c.style.Get(token.Type); entry.Colour.IsSet() {
			color = entry.Colour.String()
		}

		for _, piece := range strings.SplitAfter(token.Value, "\n") {
			if block >= len(blocks) {
				return out
			}
			value := strings.TrimSuffix(piece, "\n")
			end := offset + len(value)
			if end > len(blocks[block]) {
				end = len(blocks[block])
			}
			if style != Plain && end > offset {
				out[block] = append(out[block], Span{Start: offset, End: end, Style: style, Color: color})
			}
			offset = end
			if strings.HasSuffix(piece, "\n") {
				block++
				offset = 0
			}
		}
	}

	for i := range out {
		sortSpans(out[i])
	}
	return out
}

func categorize(t chroma.TokenType) Style {
	switch {
	case t.InCategory(chroma.Comment):
		return Comment
	case t.InCategory(chroma.Keyword):
		return Keyword
	case t.InSubCategory(chroma.LiteralString):
		return Quotation
	case t == chroma.NameFunction:
		return Function
	case t == chroma.NameClass, t == chroma.NameTag:
		return Class
	}
	return Plain
}
