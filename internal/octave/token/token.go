// Package token defines the lexical token vocabulary for OCTAVE source text.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// ERROR names the lexical-error category. The lexer does not emit ERROR
	// tokens; it reports lexical errors in its error list instead.
	ERROR

	// ENVELOPE_OPEN is "===NAME===".
	ENVELOPE_OPEN
	// ENVELOPE_CLOSE is "===END===".
	ENVELOPE_CLOSE
	// GRAMMAR_SENTINEL is the optional leading "OCTAVE::VERSION" line.
	GRAMMAR_SENTINEL
	// SECTION_MARKER is "§".
	SECTION_MARKER

	// IDENTIFIER is an uppercase-led key or bareword.
	IDENTIFIER
	// STRING is a double- or triple-quoted string literal.
	STRING
	// NUMBER is an integer or floating point literal.
	NUMBER
	// VARIABLE is "$NAME" or "$N:type".
	VARIABLE

	// ASSIGN is "::".
	ASSIGN
	// BLOCK is ":".
	BLOCK
	// NEWLINE is the statement-separator kind. The lexer does not emit it;
	// statements are delimited by each token's line and column.
	NEWLINE
	// INDENT marks an increase in leading whitespace.
	INDENT
	// DEDENT marks a decrease in leading whitespace.
	DEDENT
	// LIST_OPEN is "[".
	LIST_OPEN
	// LIST_CLOSE is "]".
	LIST_CLOSE
	// COMMA is ",".
	COMMA
	// COMMENT is "// ..." to end of line.
	COMMENT

	// FENCE_OPEN is the opening run of >=3 backticks for a literal zone.
	FENCE_OPEN
	// LITERAL_CONTENT carries the opaque, verbatim bytes of a literal zone.
	LITERAL_CONTENT
	// FENCE_CLOSE is the closing run of backticks for a literal zone.
	FENCE_CLOSE

	// Canonical operators, one token kind per operator.
	CONCAT      // ⧺
	SYNTHESIS   // ⊕
	TENSION     // ⇌
	CONSTRAINT  // ∧
	ALTERNATIVE // ∨
	FLOW        // →
)

var kindNames = map[Kind]string{
	EOF:              "EOF",
	ERROR:            "ERROR",
	ENVELOPE_OPEN:    "ENVELOPE_OPEN",
	ENVELOPE_CLOSE:   "ENVELOPE_CLOSE",
	GRAMMAR_SENTINEL: "GRAMMAR_SENTINEL",
	SECTION_MARKER:   "SECTION_MARKER",
	IDENTIFIER:       "IDENTIFIER",
	STRING:           "STRING",
	NUMBER:           "NUMBER",
	VARIABLE:         "VARIABLE",
	ASSIGN:           "ASSIGN",
	BLOCK:            "BLOCK",
	NEWLINE:          "NEWLINE",
	INDENT:           "INDENT",
	DEDENT:           "DEDENT",
	LIST_OPEN:        "LIST_OPEN",
	LIST_CLOSE:       "LIST_CLOSE",
	COMMA:            "COMMA",
	COMMENT:          "COMMENT",
	FENCE_OPEN:       "FENCE_OPEN",
	LITERAL_CONTENT:  "LITERAL_CONTENT",
	FENCE_CLOSE:      "FENCE_CLOSE",
	CONCAT:           "CONCAT",
	SYNTHESIS:        "SYNTHESIS",
	TENSION:          "TENSION",
	CONSTRAINT:       "CONSTRAINT",
	ALTERNATIVE:      "ALTERNATIVE",
	FLOW:             "FLOW",
}

// String returns the human-readable name of a Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// Canonical operator glyphs, and their recognized ASCII aliases.
const (
	GlyphConcat      = "⧺"
	GlyphSynthesis   = "⊕"
	GlyphTension     = "⇌"
	GlyphConstraint  = "∧"
	GlyphAlternative = "∨"
	GlyphFlow        = "→"
	GlyphSection     = "§"
)

// OperatorAliases maps recognized ASCII spellings to their canonical glyph.
// As a map it has no order; the lexer resolves prefix overlaps itself by
// peeking ahead in its own per-character cases.
var OperatorAliases = map[string]string{
	"->":  GlyphFlow,
	"+":   GlyphSynthesis,
	"~":   GlyphConcat,
	"vs":  GlyphTension,
	"<->": GlyphTension,
	"&":   GlyphConstraint,
	"|":   GlyphAlternative,
	"#":   GlyphSection,
}

// GlyphKind maps a canonical operator glyph to its token Kind.
var GlyphKind = map[string]Kind{
	GlyphConcat:      CONCAT,
	GlyphSynthesis:   SYNTHESIS,
	GlyphTension:     TENSION,
	GlyphConstraint:  CONSTRAINT,
	GlyphAlternative: ALTERNATIVE,
	GlyphFlow:        FLOW,
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind   Kind
	Lexeme string // raw text as it appears in the token stream (post-fold)
	Line   int    // 1-indexed
	Column int     // 1-indexed

	// Literal carries a parsed value for STRING/NUMBER tokens.
	Literal interface{}

	// Original carries the pre-repair source text when the lexer rewrote a
	// NAME{qualifier} annotation to NAME<qualifier>. ASCII operator-alias
	// folds do not set it; they are recorded only in the lexer's repair log.
	// Empty otherwise.
	Original string
}

// String renders a Token for diagnostics and test failure messages.
func (t Token) String() string {
	if t.Original != "" {
		return fmt.Sprintf("%s %q (was %q) at %d:%d", t.Kind, t.Lexeme, t.Original, t.Line, t.Column)
	}
	return fmt.Sprintf("%s %q at %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}

// Reserved keys that carry grammar significance and cannot be used as
// ordinary assignment/block keys at the document root.
const (
	KeyMeta   = "META"
	KeyOctave = "OCTAVE"
)
