// Package highlight colors simulation scripts. It parses the document with
// the tree-sitter Python grammar and maps captures to token categories,
// which a ColorFormats table turns into display formats.
package highlight

import (
	"bytes"
	"context"
	"math"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Format is the display style of one token category. Colors are names or
// #RRGGBB strings; empty means "inherit the editor color".
type Format struct {
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
	Bold       bool   `toml:"bold" yaml:"bold"`
	Italic     bool   `toml:"italic" yaml:"italic"`
}

// ColorFormats maps a token category to its format.
type ColorFormats map[string]Format

func (c ColorFormats) Clone() ColorFormats {
	out := make(ColorFormats, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Categories lists every token category the highlighter emits.
var Categories = []string{
	"keyword", "string", "comment", "number", "function", "builtin",
	"class", "decorator", "operator", "punctuation", "constant", "variable",
}

func DefaultColorFormats() ColorFormats {
	return ColorFormats{
		"keyword":     {Foreground: "#0000FF", Bold: true},
		"string":      {Foreground: "#008000"},
		"comment":     {Foreground: "#808080", Italic: true},
		"number":      {Foreground: "#800080"},
		"function":    {Foreground: "#795E26"},
		"builtin":     {Foreground: "#267F99"},
		"class":       {Foreground: "#267F99", Bold: true},
		"decorator":   {Foreground: "#AF00DB"},
		"operator":    {Foreground: "#000000"},
		"punctuation": {Foreground: "#000000"},
		"constant":    {Foreground: "#0000FF"},
		"variable":    {},
	}
}

// Span marks runes [StartCol, EndCol) of one line as Kind.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Highlighter is bound to one document. It is not safe for concurrent use.
type Highlighter struct {
	parser  *sitter.Parser
	query   *sitter.Query
	formats ColorFormats
	source  []byte
	spans   map[int][]Span
}

func New(formats ColorFormats) *Highlighter {
	lang := python.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	h := &Highlighter{
		parser:  parser,
		formats: formats.Clone(),
		spans:   map[int][]Span{},
	}
	// A query that fails to compile leaves the document uncolored.
	if q, err := sitter.NewQuery([]byte(pythonHighlightQuery), lang); err == nil {
		h.query = q
	}
	return h
}

func (h *Highlighter) ColorFormats() ColorFormats {
	return h.formats.Clone()
}

func (h *Highlighter) SetColorFormats(formats ColorFormats) {
	h.formats = formats.Clone()
}

// Format returns the format for kind.
func (h *Highlighter) Format(kind string) (Format, bool) {
	f, ok := h.formats[kind]
	return f, ok
}

// Rehighlight reparses text from scratch and recomputes every line's spans.
func (h *Highlighter) Rehighlight(text string) {
	h.source = []byte(text)
	h.spans = map[int][]Span{}
	if h.query == nil {
		return
	}
	tree, err := h.parser.ParseCtx(context.Background(), nil, h.source)
	if err != nil || tree == nil {
		return
	}
	defer tree.Close()
	lines := bytes.Split(h.source, []byte("\n"))
	h.spans = querySpans(h.query, tree, h.source, lines)
}

// Spans returns the spans of one line, or nil.
func (h *Highlighter) Spans(line int) []Span {
	return h.spans[line]
}

// KindAt resolves overlapping captures at (line, col) by priority.
func (h *Highlighter) KindAt(line, col int) (string, bool) {
	return kindAt(h.spans[line], col)
}

func (h *Highlighter) Close() {
	if h.query != nil {
		h.query.Close()
		h.query = nil
	}
	if h.parser != nil {
		h.parser.Close()
		h.parser = nil
	}
}

func querySpans(query *sitter.Query, tree *sitter.Tree, source []byte, lines [][]byte) map[int][]Span {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row) && row < len(lines); row++ {
				startCol := 0
				endCol := math.MaxInt32
				if row == int(start.Row) {
					startCol = runeCol(lines[row], int(start.Column))
				}
				if row == int(end.Row) {
					endCol = runeCol(lines[row], int(end.Column))
				}
				if endCol <= startCol {
					continue
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

// runeCol converts a tree-sitter byte column into a rune column.
func runeCol(line []byte, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return utf8.RuneCount(line[:byteCol])
}

func priority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword", "decorator":
		return 5
	case "constant", "builtin":
		return 4
	case "function", "class", "number":
		return 3
	case "variable":
		return 2
	case "operator", "punctuation":
		return 1
	default:
		return 0
	}
}

func kindAt(spans []Span, col int) (string, bool) {
	best := ""
	bestPriority := -1
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := priority(span.Kind); p > bestPriority {
			bestPriority = p
			best = span.Kind
		}
	}
	return best, best != ""
}

const pythonHighlightQuery = `
((comment) @comment)
((string) @string)
((escape_sequence) @string)
((integer) @number)
((float) @number)
((true) @constant)
((false) @constant)
((none) @constant)
[
  "and" "as" "assert" "async" "await" "break" "class" "continue" "def"
  "del" "elif" "else" "except" "finally" "for" "from" "global" "if"
  "import" "in" "is" "lambda" "nonlocal" "not" "or" "pass" "raise"
  "return" "try" "while" "with" "yield"
] @keyword
((decorator) @decorator)
((class_definition name: (identifier) @class))
((function_definition name: (identifier) @function))
((call function: (identifier) @function))
((call function: (attribute attribute: (identifier) @function)))
((identifier) @builtin (#match? @builtin "^(abs|all|any|bin|bool|bytearray|bytes|chr|dict|divmod|enumerate|filter|float|format|getattr|hasattr|hex|int|isinstance|len|list|map|max|min|next|oct|open|ord|pow|print|range|repr|reversed|round|set|setattr|sorted|str|sum|super|tuple|type|zip)$"))
((identifier) @constant (#match? @constant "^[A-Z][A-Z0-9_]+$"))
((identifier) @variable)
[
  "+" "-" "*" "/" "//" "%" "**" "=" "==" "!=" "<" ">" "<=" ">="
  "+=" "-=" "*=" "/=" "&" "|" "^" "~" "<<" ">>" "->"
] @operator
["(" ")" "[" "]" "{" "}" "," "." ":"] @punctuation
`
