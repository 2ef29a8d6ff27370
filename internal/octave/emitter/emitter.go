// Package emitter implements stage 6: deterministic, idempotent
// serialization of an ast.Document back to canonical OCTAVE text. Grounded
// and the is_absent/needs_quotes contract pinned by
// original_source/tests/unit/test_literal_zones_write.py.
package emitter

import (
	"fmt"
	"strings"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/token"
)

// Options configures emission. Zero-value Options is not valid on its own;
// callers should start from DefaultOptions.
type Options struct {
	IndentWidth           int
	StripComments         bool
	CanonicalizeOperators bool
}

// DefaultOptions returns the pipeline's documented default emission settings.
func DefaultOptions() Options {
	return Options{IndentWidth: 2, StripComments: false, CanonicalizeOperators: true}
}

const maxLineWidth = 80

// Emit renders doc to its canonical text form. Emit is a pure function of
// doc and opts: calling it twice on the same input produces byte-identical
// output, and parse(Emit(doc, opts)) round-trips the tree (the pipeline's
// idempotence property).
func Emit(doc *ast.Document, opts Options) string {
	if opts.IndentWidth <= 0 {
		opts = DefaultOptions()
	}
	var b strings.Builder

	if doc.GrammarVersion != "" {
		fmt.Fprintf(&b, "OCTAVE::%s\n", doc.GrammarVersion)
	}

	name := doc.Name
	if name == "" {
		name = "INFERRED"
	}
	fmt.Fprintf(&b, "===%s===\n", name)

	if doc.Meta != nil {
		emitMetaBlock(&b, doc.Meta, opts)
		if len(doc.Sections) > 0 {
			b.WriteString("---\n")
		}
	}

	for i, node := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		emitNode(&b, node, 0, opts)
	}

	b.WriteString("===END===\n")
	return b.String()
}

func indent(level int, width int) string {
	return strings.Repeat(" ", level*width)
}

func emitMetaBlock(b *strings.Builder, meta *ast.InlineMap, opts Options) {
	b.WriteString("META:\n")
	pad := indent(1, opts.IndentWidth)
	for _, key := range meta.Keys {
		v, _ := meta.Get(key)
		fmt.Fprintf(b, "%s%s::%s\n", pad, key, renderValue(v, opts))
	}
}

func emitNode(b *strings.Builder, node ast.Node, level int, opts Options) {
	pad := indent(level, opts.IndentWidth)
	switch n := node.(type) {
	case *ast.Assignment:
		emitAssignment(b, n, level, opts)
	case *ast.Block:
		fmt.Fprintf(b, "%s%s:\n", pad, n.Key)
		for _, child := range n.Children {
			emitNode(b, child, level+1, opts)
		}
	case *ast.Section:
		fmt.Fprintf(b, "%s%s%s::%s%s:\n", pad, token.GlyphSection, n.SectionID, n.Name, n.Annotation)
		for _, child := range n.Children {
			emitNode(b, child, level+1, opts)
		}
	}
}

func emitAssignment(b *strings.Builder, a *ast.Assignment, level int, opts Options) {
	pad := indent(level, opts.IndentWidth)
	if !opts.StripComments {
		for _, c := range a.LeadingComments {
			fmt.Fprintf(b, "%s// %s\n", pad, c)
		}
	}
	if ast.IsAbsent(a.Value) {
		return
	}
	if lz, ok := a.Value.(ast.LiteralZone); ok {
		fmt.Fprintf(b, "%s%s::\n", pad, a.Key)
		emitLiteralZone(b, lz, level, opts)
		return
	}
	fmt.Fprintf(b, "%s%s::%s", pad, a.Key, renderValue(a.Value, opts))
	if !opts.StripComments && a.TrailingComment != "" {
		fmt.Fprintf(b, " // %s", a.TrailingComment)
	}
	b.WriteString("\n")
}

// emitLiteralZone writes the fence-delimited content verbatim, scaling the
// fence length if the content itself contains a backtick run that would
// otherwise be ambiguous with the fence, and re-indenting only the fence
// lines (never the content) to the enclosing level (GH#296).
func emitLiteralZone(b *strings.Builder, lz ast.LiteralZone, level int, opts Options) {
	pad := indent(level+1, opts.IndentWidth)
	marker := lz.FenceMarker
	if marker == "" {
		marker = "```"
	}
	marker = scaleFence(marker, lz.Content)

	fmt.Fprintf(b, "%s%s%s\n", pad, marker, lz.InfoTag)
	if lz.Content != "" {
		b.WriteString(lz.Content)
		if !strings.HasSuffix(lz.Content, "\n") {
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(b, "%s%s\n", pad, marker)
}

// scaleFence lengthens marker until no line of content begins, after any
// leading whitespace, with a backtick run of at least the marker's length.
func scaleFence(marker, content string) string {
	for {
		unsafe := false
		for _, line := range strings.Split(content, "\n") {
			if leadingBackticks(strings.TrimLeft(line, " \t")) >= len(marker) {
				unsafe = true
				break
			}
		}
		if !unsafe {
			return marker
		}
		marker += "`"
	}
}

func leadingBackticks(s string) int {
	n := 0
	for _, r := range s {
		if r != '`' {
			break
		}
		n++
	}
	return n
}

// renderValue renders a Value in assignment/list/inline-map position.
// LiteralZone is not handled here: it is opaque, spans multiple lines, and
// is only ever legal directly as an assignment's value, handled by
// emitAssignment instead.
func renderValue(v ast.Value, opts Options) string {
	switch val := v.(type) {
	case ast.Scalar:
		return renderScalar(val.Text)
	case ast.NullValue:
		return "null"
	case ast.Flow:
		return val.Canonical
	case ast.Variable:
		if val.Type != "" {
			return "$" + val.Name + ":" + val.Type
		}
		return "$" + val.Name
	case ast.ListValue:
		return renderList(val, opts)
	case *ast.InlineMap:
		return renderInlineMap(val, opts)
	case ast.Holographic:
		return renderHolographic(val)
	default:
		return ""
	}
}

var reservedWords = map[string]bool{"null": true, "true": true, "false": true}

// needsQuotes reports whether text requires double-quoting on emission:
// it contains whitespace, starts with a character that can begin neither an
// identifier nor a number, is empty, or equals a reserved keyword.
func needsQuotes(text string) bool {
	if text == "" {
		return true
	}
	if reservedWords[text] {
		return true
	}
	if strings.ContainsAny(text, " \t\n") {
		return true
	}
	first := rune(text[0])
	isIdentStart := first == '_' || (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')
	isNumberStart := (first >= '0' && first <= '9') || first == '-'
	if !isIdentStart && !isNumberStart {
		return true
	}
	return false
}

func renderScalar(text string) string {
	if needsQuotes(text) {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(text)
		return `"` + escaped + `"`
	}
	return text
}

func renderList(list ast.ListValue, opts Options) string {
	items := make([]string, len(list.Items))
	multiline := false
	for i, item := range list.Items {
		items[i] = renderValue(item, opts)
		switch item.(type) {
		case ast.ListValue, *ast.InlineMap:
			multiline = true
		}
	}
	flat := "[" + strings.Join(items, ",") + "]"
	if !multiline && len(flat) <= maxLineWidth {
		return flat
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, item := range items {
		b.WriteString("  " + item + ",\n")
	}
	b.WriteString("]")
	return b.String()
}

func renderInlineMap(m *ast.InlineMap, opts Options) string {
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		v, _ := m.Get(k)
		parts[i] = k + "::" + renderValue(v, opts)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func renderHolographic(h ast.Holographic) string {
	var b strings.Builder
	// The example is always quoted: the parser only recognizes a pattern
	// whose first element is a string literal.
	b.WriteString(`"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(h.Example) + `"`)
	for _, c := range h.Constraints {
		b.WriteString(token.GlyphConstraint)
		b.WriteString(c.Name)
		if len(c.Args) > 0 {
			b.WriteString("[" + strings.Join(c.Args, ",") + "]")
		}
	}
	if h.Target != "" {
		b.WriteString(token.GlyphFlow)
		b.WriteString(token.GlyphSection)
		b.WriteString(h.Target)
	}
	return "[" + b.String() + "]"
}
