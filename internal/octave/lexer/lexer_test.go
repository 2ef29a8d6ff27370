package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octave-lang/octave/internal/octave/audit"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/token"
)

func scan(t *testing.T, src string, opts Options) ([]token.Token, audit.RepairLog, []LenientWarning, octaveerr.List) {
	t.Helper()
	l := New(src, opts)
	return l.ScanTokens()
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestOperatorAliasFolding(t *testing.T) {
	src := `FLOW_EXAMPLE::A -> B + C ~ D`
	toks, repairs, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)

	assert.Contains(t, kinds(toks), token.FLOW)
	assert.Contains(t, kinds(toks), token.SYNTHESIS)
	assert.Contains(t, kinds(toks), token.CONCAT)
	assert.True(t, repairs.HasRepairs())
	assert.Len(t, repairs.Entries, 3)
	assert.Equal(t, audit.TierNormalization, repairs.Entries[0].Tier)
}

func TestTensionAliasesBothForms(t *testing.T) {
	for _, src := range []string{"X::A vs B", "X::A <-> B"} {
		toks, repairs, _, errs := scan(t, src, Options{})
		require.Empty(t, errs)
		assert.Contains(t, kinds(toks), token.TENSION)
		assert.True(t, repairs.HasRepairs())
	}
}

func TestSectionMarkerAlias(t *testing.T) {
	toks, repairs, _, errs := scan(t, "#1::CONFIG", Options{})
	require.Empty(t, errs)
	assert.Equal(t, token.SECTION_MARKER, toks[0].Kind)
	assert.True(t, repairs.HasRepairs())
}

func TestEnvelopeMarkers(t *testing.T) {
	src := "===DEMO===\nKEY::1\n===END===\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)
	assert.Equal(t, token.ENVELOPE_OPEN, toks[0].Kind)
	assert.Equal(t, "DEMO", toks[0].Literal)
	found := false
	for _, tok := range toks {
		if tok.Kind == token.ENVELOPE_CLOSE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLiteralZoneNeverNormalizedOrSplit(t *testing.T) {
	src := "CODE:\n```python\nx = 1 +  1\n```\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)

	var content string
	var sawOpen, sawClose bool
	for _, tok := range toks {
		switch tok.Kind {
		case token.FENCE_OPEN:
			sawOpen = true
			assert.Equal(t, "```", tok.Lexeme)
		case token.LITERAL_CONTENT:
			content = tok.Lexeme
		case token.FENCE_CLOSE:
			sawClose = true
		}
	}
	assert.True(t, sawOpen)
	assert.True(t, sawClose)
	assert.Equal(t, "x = 1 +  1", content, "literal content must survive verbatim, including double space and ASCII '+'")
}

func TestLiteralZoneFenceLengthScaling(t *testing.T) {
	src := "CODE:\n`````text\nhas ```` four backticks\n`````\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)
	var open, close string
	for _, tok := range toks {
		if tok.Kind == token.FENCE_OPEN {
			open = tok.Lexeme
		}
		if tok.Kind == token.FENCE_CLOSE {
			close = tok.Lexeme
		}
	}
	assert.Equal(t, "`````", open)
	assert.Equal(t, "`````", close)
}

func TestUnterminatedLiteralZoneIsE006(t *testing.T) {
	src := "CODE:\n```\nunterminated\n"
	_, _, _, errs := scan(t, src, Options{})
	require.NotEmpty(t, errs)
	assert.Equal(t, octaveerr.CodeUnterminatedZone, errs[0].Code)
}

func TestNestedFenceAmbiguityIsE007(t *testing.T) {
	src := "CODE:\n```text\nouter\n```inner\nstill inside\n```\n"
	_, _, _, errs := scan(t, src, Options{})
	require.NotEmpty(t, errs)
	assert.Equal(t, octaveerr.CodeNestedZone, errs[0].Code)
}

func TestNumberedKeyListItemKeysLexAsNumbers(t *testing.T) {
	src := `GATES::[1::"alpha", 2::"beta", 3::"gamma"]`
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)

	numbers := 0
	for _, tok := range toks {
		if tok.Kind == token.NUMBER {
			numbers++
		}
	}
	assert.Equal(t, 3, numbers)
}

func TestCurlyBraceStrictModeRaisesE005WithHint(t *testing.T) {
	_, _, warnings, errs := scan(t, "ARCHETYPE::ATHENA{strategic_wisdom}", Options{Strict: true})
	require.NotEmpty(t, errs)
	assert.Equal(t, octaveerr.CodeUnexpectedChar, errs[0].Code)
	assert.Contains(t, errs[0].Suggestion, "W_REPAIR_CANDIDATE")
	assert.NotEmpty(t, warnings)
}

func TestCurlyBraceLenientModeRepairsToAngleBrackets(t *testing.T) {
	toks, repairs, warnings, errs := scan(t, "ATHENA{strategic_wisdom}", Options{Strict: false})
	require.Empty(t, errs)
	require.Len(t, toks, 2) // IDENTIFIER + EOF
	assert.Equal(t, "ATHENA<strategic_wisdom>", toks[0].Lexeme)
	assert.Equal(t, "ATHENA{strategic_wisdom}", toks[0].Original)
	assert.True(t, repairs.HasRepairs())
	assert.NotEmpty(t, warnings)
}

func TestIndentationTracksNesting(t *testing.T) {
	src := "BLOCK:\n  CHILD::1\n  NESTED:\n    GRANDCHILD::2\nSIBLING::3\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)

	indentCount, dedentCount := 0, 0
	for _, tok := range toks {
		if tok.Kind == token.INDENT {
			indentCount++
		}
		if tok.Kind == token.DEDENT {
			dedentCount++
		}
	}
	assert.Equal(t, 2, indentCount)
	assert.Equal(t, 2, dedentCount)
}

func TestBlankAndCommentLinesDoNotBreakIndentContext(t *testing.T) {
	src := "META:\n  KEY::1\n\n  // a comment\n  KEY2::2\nNEXT::3\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)

	indentCount := 0
	for _, tok := range toks {
		if tok.Kind == token.INDENT {
			indentCount++
		}
	}
	assert.Equal(t, 1, indentCount, "blank line and comment-only line must not push extra indentation levels")
}

func TestTabOutsideLiteralZoneIsE005(t *testing.T) {
	src := "KEY::1\n\tBAD::2\n"
	_, _, _, errs := scan(t, src, Options{})
	require.NotEmpty(t, errs)
	assert.Equal(t, octaveerr.CodeUnexpectedChar, errs[0].Code)
}

func TestVariableWithTypeHint(t *testing.T) {
	toks, _, _, errs := scan(t, "KEY::$COUNT:int", Options{})
	require.Empty(t, errs)
	var varTok *token.Token
	for i := range toks {
		if toks[i].Kind == token.VARIABLE {
			varTok = &toks[i]
		}
	}
	require.NotNil(t, varTok)
	assert.Equal(t, "$COUNT:int", varTok.Lexeme)
}

func TestTripleQuotedStringPreservesWhitespace(t *testing.T) {
	src := "KEY::\"\"\"line one\n  line two\"\"\"\n"
	toks, _, _, errs := scan(t, src, Options{})
	require.Empty(t, errs)
	var strTok *token.Token
	for i := range toks {
		if toks[i].Kind == token.STRING {
			strTok = &toks[i]
		}
	}
	require.NotNil(t, strTok)
	assert.Equal(t, "line one\n  line two", strTok.Literal)
}

func TestGrammarSentinelLineCapturesVersion(t *testing.T) {
	toks, _, _, errs := scan(t, "OCTAVE::5.1.0\nKEY::1\n", Options{})
	require.Empty(t, errs)
	var sentinel *token.Token
	for i := range toks {
		if toks[i].Kind == token.GRAMMAR_SENTINEL {
			sentinel = &toks[i]
		}
	}
	require.NotNil(t, sentinel)
	assert.Equal(t, "5.1.0", sentinel.Literal)
}
