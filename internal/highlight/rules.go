// Package highlight decorates text blocks (lines) with style spans and keeps
// the per-block state the text pane needs: spans, the goto-line mark and
// the cursor.
package highlight

import (
	"regexp"
	"sort"
)

// Style is the category a span is drawn with.
type Style int

const (
	Plain Style = iota
	Keyword
	Class
	Comment
	Quotation
	Function
)

func (s Style) String() string {
	switch s {
	case Keyword:
		return "keyword"
	case Class:
		return "class"
	case Comment:
		return "comment"
	case Quotation:
		return "quotation"
	case Function:
		return "function"
	}
	return "plain"
}

// Span styles text[Start:End] of one block. Offsets are in bytes. Color,
// when set, is a "#rrggbb" value chosen by the engine and wins over the
// category palette.
type Span struct {
	Start int
	End   int
	Style Style
	Color string
}

// State is carried from one block to the next.
type State int

const (
	Clear State = iota
	InComment
)

// Rule styles every match of Pattern. When Group is non-zero only that
// submatch is styled.
type Rule struct {
	Pattern *regexp.Regexp
	Style   Style
	Group   int
}

// Engine highlights a whole text, returning the spans of each block.
type Engine interface {
	Highlight(path string, blocks []string) [][]Span
}

var defaultKeywords = []string{
	"bool", "break", "case", "char", "class", "const", "continue", "default",
	"do", "double", "else", "enum", "explicit", "false", "float", "for",
	"friend", "if", "inline", "int", "long", "namespace", "null", "operator",
	"private", "protected", "public", "return", "short", "signals", "signed",
	"slots", "static", "struct", "switch", "template", "true", "typedef",
	"typename", "union", "unsigned", "virtual", "void", "volatile", "while",
}

// DefaultRules returns the rule list in application order: keywords,
// capitalized identifiers, single-line comments, quoted strings and
// function-call identifiers. Later rules overwrite earlier ones where they
// overlap.
func DefaultRules() []Rule {
	kw := "\\b(?:"
	for i, k := range defaultKeywords {
		if i > 0 {
			kw += "|"
		}
		kw += regexp.QuoteMeta(k)
	}
	kw += ")\\b"

	return []Rule{
		{Pattern: regexp.MustCompile(kw), Style: Keyword},
		{Pattern: regexp.MustCompile(`\b[A-Z][A-Za-z0-9_]*\b`), Style: Class},
		{Pattern: regexp.MustCompile(`//.*`), Style: Comment},
		{Pattern: regexp.MustCompile(`"[^"]*"`), Style: Quotation},
		{Pattern: regexp.MustCompile(`\b([A-Za-z0-9_]+)\(`), Style: Function, Group: 1},
	}
}

// Rules is the regular-expression engine.
type Rules struct {
	rules        []Rule
	commentStart *regexp.Regexp
	commentEnd   *regexp.Regexp
}

// NewRules builds an engine with the default rules and /* */ comments.
func NewRules() *Rules {
	return NewRulesWith(DefaultRules(), `/\*`, `\*/`)
}

// NewRulesWith builds an engine from custom rules and comment markers.
func NewRulesWith(rules []Rule, commentStart, commentEnd string) *Rules {
	return &Rules{
		rules:        rules,
		commentStart: regexp.MustCompile(commentStart),
		commentEnd:   regexp.MustCompile(commentEnd),
	}
}

// Highlight runs every block in order, threading the comment state.
func (r *Rules) Highlight(_ string, blocks []string) [][]Span {
	out := make([][]Span, len(blocks))
	state := Clear
	for i, text := range blocks {
		out[i], state = r.HighlightBlock(text, state)
	}
	return out
}

// HighlightBlock styles one block given the state left by the previous
// block and returns the state for the next one.
func (r *Rules) HighlightBlock(text string, prev State) ([]Span, State) {
	styles := make([]Style, len(text))

	for _, rule := range r.rules {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if rule.Group > 0 && 2*rule.Group+1 < len(m) {
				start, end = m[2*rule.Group], m[2*rule.Group+1]
			}
			if start < 0 {
				continue
			}
			fill(styles, start, end, rule.Style)
		}
	}

	state := r.comments(text, prev, styles)
	return collapse(styles), state
}

// comments applies the two-state comment automaton. In InComment the block
// is comment up to the first end marker (or entirely, when there is none);
// in Clear a start marker opens a comment. Scanning continues after each
// closed comment so one block can hold several.
func (r *Rules) comments(text string, prev State, styles []Style) State {
	start := -1
	searchEndFrom := 0
	if prev == InComment {
		start = 0
	} else if loc := r.commentStart.FindStringIndex(text); loc != nil {
		start = loc[0]
		searchEndFrom = loc[1]
	}

	for start >= 0 {
		loc := r.commentEnd.FindStringIndex(text[searchEndFrom:])
		if loc == nil {
			fill(styles, start, len(text), Comment)
			return InComment
		}
		end := searchEndFrom + loc[1]
		fill(styles, start, end, Comment)

		next := r.commentStart.FindStringIndex(text[end:])
		if next == nil {
			break
		}
		start = end + next[0]
		searchEndFrom = end + next[1]
	}
	return Clear
}

func fill(styles []Style, start, end int, s Style) {
	if end > len(styles) {
		end = len(styles)
	}
	for i := start; i < end; i++ {
		styles[i] = s
	}
}

// collapse turns a per-byte style slice into spans, dropping plain runs.
func collapse(styles []Style) []Span {
	var spans []Span
	for i := 0; i < len(styles); {
		j := i
		for j < len(styles) && styles[j] == styles[i] {
			j++
		}
		if styles[i] != Plain {
			spans = append(spans, Span{Start: i, End: j, Style: styles[i]})
		}
		i = j
	}
	return spans
}

// sortSpans orders spans by start offset.
func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}
