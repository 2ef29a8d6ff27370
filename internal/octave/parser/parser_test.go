package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/lexer"
)

func parseSrc(t *testing.T, src string) (*ast.Document, []ast.Warning, []string) {
	t.Helper()
	toks, _, _, lexErrs := lexer.New(src, lexer.Options{}).ScanTokens()
	require.Empty(t, lexErrs)
	doc, warnings, errs := New(toks, Options{}).Parse()
	errStrings := make([]string, len(errs))
	for i, e := range errs {
		errStrings[i] = e.Error()
	}
	return doc, warnings, errStrings
}

func TestEnvelopeAndAssignment(t *testing.T) {
	doc, _, errs := parseSrc(t, "===DEMO===\nKEY::\"value\"\n===END===\n")
	require.Empty(t, errs)
	assert.Equal(t, "DEMO", doc.Name)
	require.Len(t, doc.Sections, 1)
	a, ok := doc.Sections[0].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "KEY", a.Key)
	assert.Equal(t, ast.Scalar{Text: "value"}, a.Value)
}

func TestMetaBlockRoutesToDocumentMeta(t *testing.T) {
	src := "===TEST===\nMETA:\n  TYPE::LLM_PROFILE\n  VERSION::\"1.0\"\n===END===\n"
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	require.NotNil(t, doc.Meta)
	v, ok := doc.Meta.Get("TYPE")
	require.True(t, ok)
	assert.Equal(t, ast.Scalar{Text: "LLM_PROFILE"}, v)
	_, ok = doc.Meta.Get("VERSION")
	assert.True(t, ok)
}

func TestInlineCommentDoesNotBreakMetaNesting(t *testing.T) {
	src := "===TEST===\n" +
		"META:\n" +
		"  TYPE::LLM_PROFILE\n" +
		"  COMPRESSION_TIER::CONSERVATIVE // This is a comment\n" +
		"  LOSS_PROFILE::\"some_loss\"\n" +
		"  REQUIRES::\"some_tool\"\n" +
		"===END===\n"
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	for _, key := range []string{"TYPE", "COMPRESSION_TIER", "LOSS_PROFILE", "REQUIRES"} {
		_, ok := doc.Meta.Get(key)
		assert.True(t, ok, "%s should remain inside META despite the preceding inline comment", key)
	}
}

func TestBracketAnnotationPreservesIndentation(t *testing.T) {
	src := "===TEST===\n" +
		"BLOCK:\n" +
		"  TASKS:\n" +
		"    task_1::DONE[annotation]\n" +
		"    task_2::DONE[another]\n" +
		"===END===\n"
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	require.Len(t, doc.Sections, 1)
	block := doc.Sections[0].(*ast.Block)
	assert.Equal(t, "BLOCK", block.Key)
	require.Len(t, block.Children, 1)
	tasks := block.Children[0].(*ast.Block)
	require.Len(t, tasks.Children, 2, "bracket annotation must not make task_2 a child of task_1 (GH#85/GH#261)")
	assert.Equal(t, "task_1", tasks.Children[0].(*ast.Assignment).Key)
	assert.Equal(t, "task_2", tasks.Children[1].(*ast.Assignment).Key)
}

func TestConstraintChainWithBracketAnnotationIsSingleItem(t *testing.T) {
	src := `===TEST===
CONFLICT_ERRORS::[REQ∧OPT[mutually_exclusive], A∧B, C∧D]
===END===`
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	a := doc.Sections[0].(*ast.Assignment)
	list, ok := a.Value.(ast.ListValue)
	require.True(t, ok)
	require.Len(t, list.Items, 3, "the bracket annotation must not inflate the list beyond 3 items")
	first, ok := list.Items[0].(ast.Flow)
	require.True(t, ok)
	assert.Equal(t, "REQ∧OPT", first.Canonical)
}

func TestNumberedKeyListItemsParseAsInlineMaps(t *testing.T) {
	src := `===TEST===
ITEMS::[1::"alpha", 2::"beta", 3::"gamma"]
===END===`
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	a := doc.Sections[0].(*ast.Assignment)
	list, ok := a.Value.(ast.ListValue)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
	for i, key := range []string{"1", "2", "3"} {
		item, ok := list.Items[i].(*ast.InlineMap)
		require.True(t, ok, "item %d should be an InlineMap, not a bare scalar", i)
		_, has := item.Get(key)
		assert.True(t, has)
	}
}

func TestNestedInlineMapIsRejected(t *testing.T) {
	_, _, errs := parseSrc(t, "===TEST===\nDATA::[config::[nested::value]]\n===END===\n")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "E_NESTED_INLINE_MAP")
}

func TestConstructorMisuseEmitsWarning(t *testing.T) {
	src := "===TEST===\n" +
		"MUST_USE::[\n" +
		"  REGEX::\"Line \\\\d+:\"\n" +
		"]\n" +
		"===END===\n"
	doc, warnings, errs := parseSrc(t, src)
	require.Empty(t, errs)
	require.NotNil(t, doc)
	found := false
	for _, w := range warnings {
		if w.Subtype == "constructor_misuse" && w.Aux["key"] == "REGEX" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHolographicPattern(t *testing.T) {
	src := `===TEST===
FIELDS:
  NAME::["example"∧REQ→§TARGET]
===END===`
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	block := doc.Sections[0].(*ast.Block)
	a := block.Children[0].(*ast.Assignment)
	h, ok := a.Value.(ast.Holographic)
	require.True(t, ok)
	assert.Equal(t, "example", h.Example)
	assert.Equal(t, "TARGET", h.Target)
	require.Len(t, h.Constraints, 1)
	assert.Equal(t, "REQ", h.Constraints[0].Name)
}

func TestSectionWithAnnotation(t *testing.T) {
	src := "===TEST===\n§1::CONFIG[mode]:\n  KEY::1\n===END===\n"
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	sec := doc.Sections[0].(*ast.Section)
	assert.Equal(t, "1", sec.SectionID)
	assert.Equal(t, "CONFIG", sec.Name)
	assert.Equal(t, "[mode]", sec.Annotation)
	require.Len(t, sec.Children, 1)
}

func TestLiteralZoneValueIsOpaque(t *testing.T) {
	src := "===TEST===\nCODE::\n```python\nx = 1\n```\n===END===\n"
	doc, _, errs := parseSrc(t, src)
	require.Empty(t, errs)
	a := doc.Sections[0].(*ast.Assignment)
	zone, ok := a.Value.(ast.LiteralZone)
	require.True(t, ok)
	assert.Equal(t, "x = 1", zone.Content)
}

func TestGrammarSentinelRecordedOnDocument(t *testing.T) {
	doc, _, errs := parseSrc(t, "OCTAVE::5.1.0\n===TEST===\nKEY::1\n===END===\n")
	require.Empty(t, errs)
	assert.Equal(t, "5.1.0", doc.GrammarVersion)
}

func TestDocumentWithoutEnvelopeStillParses(t *testing.T) {
	doc, _, errs := parseSrc(t, "KEY::1\nOTHER::2\n")
	require.Empty(t, errs)
	assert.False(t, doc.HasSeparator)
	assert.Len(t, doc.Sections, 2)
}
