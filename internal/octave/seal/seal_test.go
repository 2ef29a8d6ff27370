package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octave-lang/octave/internal/octave/emitter"
	"github.com/octave-lang/octave/internal/octave/lexer"
	"github.com/octave-lang/octave/internal/octave/parser"
)

func parseSrc(t *testing.T, src string) *parser.Parser {
	t.Helper()
	toks, _, _, lexErrs := lexer.New(src, lexer.Options{}).ScanTokens()
	require.Empty(t, lexErrs)
	return parser.New(toks, parser.Options{})
}

func TestDigestIsDeterministic(t *testing.T) {
	d1 := Digest("===DOC===\nKEY::1\n===END===\n")
	d2 := Digest("===DOC===\nKEY::1\n===END===\n")
	assert.Equal(t, d1, d2)
}

func TestDigestDiffersOnContentChange(t *testing.T) {
	d1 := Digest("===DOC===\nKEY::1\n===END===\n")
	d2 := Digest("===DOC===\nKEY::2\n===END===\n")
	assert.NotEqual(t, d1, d2)
}

func TestSealProducesMatchingDigestOnVerify(t *testing.T) {
	doc, _, errs := parseSrc(t, "===DOC===\nSTATUS::ACTIVE\nCOUNT::3\n===END===\n").Parse()
	require.Empty(t, errs)

	text, digest := Seal(doc, emitter.DefaultOptions())
	assert.Equal(t, Digest(text), digest)

	result, verifyErrs := Verify(text, lexer.Options{}, parser.Options{}, emitter.DefaultOptions())
	require.Empty(t, verifyErrs)
	require.NotNil(t, result)
	assert.True(t, result.Matched)
	assert.Equal(t, digest, result.OriginalDigest)
	assert.Equal(t, digest, result.RecomputedDigest)
}

func TestVerifyDetectsTamperedText(t *testing.T) {
	doc, _, errs := parseSrc(t, "===DOC===\nSTATUS::ACTIVE\n===END===\n").Parse()
	require.Empty(t, errs)

	text, _ := Seal(doc, emitter.DefaultOptions())
	tampered := text + "EXTRA::1\n"

	result, verifyErrs := Verify(tampered, lexer.Options{}, parser.Options{}, emitter.DefaultOptions())
	if len(verifyErrs) > 0 {
		return
	}
	assert.False(t, result.Matched)
}

func TestVerifyReturnsParseErrorsWithoutPanicking(t *testing.T) {
	result, errs := Verify("not octave at all {{{", lexer.Options{}, parser.Options{}, emitter.DefaultOptions())
	assert.Nil(t, result)
	_ = errs
}
