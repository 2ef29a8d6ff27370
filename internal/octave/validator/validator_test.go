package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octave-lang/octave/internal/octave/lexer"
	"github.com/octave-lang/octave/internal/octave/parser"
	"github.com/octave-lang/octave/internal/octave/schema"
)

func TestMissingRequiredFieldIsE003(t *testing.T) {
	schemaSrc := "===SCHEMA===\nFIELDS:\n  NAME::[\"n\"∧REQ→§SELF]\n  STATUS::[\"s\"∧OPT→§SELF]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nSTATUS::\"active\"\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors.Error(), "E003")
}

func TestEnumConstraintRejectsUnlistedValue(t *testing.T) {
	schemaSrc := "===SCHEMA===\nFIELDS:\n  STATUS::[\"s\"∧REQ∧ENUM[ACTIVE,INACTIVE]→§SELF]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nSTATUS::PENDING\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors.Error(), "E_ENUM")
}

func TestEnumConstraintAcceptsListedValue(t *testing.T) {
	schemaSrc := "===SCHEMA===\nFIELDS:\n  STATUS::[\"s\"∧REQ∧ENUM[ACTIVE,INACTIVE]→§SELF]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nSTATUS::ACTIVE\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	assert.False(t, res.HasErrors())
}

func TestRoutingLogRecordsTargetedField(t *testing.T) {
	schemaSrc := "===SCHEMA===\nFIELDS:\n  AGENT::[\"a\"∧REQ→§INDEXER]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nAGENT::\"impl-lead\"\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	require.True(t, res.Routing.HasRoutes())
	require.Len(t, res.Routing.Entries, 1)
	assert.Equal(t, "AGENT", res.Routing.Entries[0].SourcePath)
	assert.Equal(t, "INDEXER", res.Routing.Entries[0].TargetName)
	assert.True(t, res.Routing.Entries[0].ConstraintPassed)
}

func TestUnknownFieldRejectedByPolicy(t *testing.T) {
	schemaSrc := "===SCHEMA===\nPOLICY:\n  UNKNOWN_FIELDS::REJECT\nFIELDS:\n  NAME::[\"n\"∧REQ→§SELF]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nNAME::\"n\"\nEXTRA::1\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	require.True(t, res.HasErrors())
}

func TestUnknownFieldAllowedByDefaultPolicy(t *testing.T) {
	schemaSrc := "===SCHEMA===\nFIELDS:\n  NAME::[\"n\"∧REQ→§SELF]\n===END===\n"
	toks, _, _, _ := lexer.New(schemaSrc, lexer.Options{}).ScanTokens()
	schemaDoc, _, _ := parser.New(toks, parser.Options{}).Parse()
	def, _ := schema.Extract(schemaDoc)

	docSrc := "===DOC===\nNAME::\"n\"\nEXTRA::1\n===END===\n"
	toks2, _, _, _ := lexer.New(docSrc, lexer.Options{}).ScanTokens()
	doc, _, _ := parser.New(toks2, parser.Options{}).Parse()

	res := Validate(doc, def)
	assert.False(t, res.HasErrors())
}
