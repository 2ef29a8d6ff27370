// Package octave is the pipeline's façade: the only package in this module
// that imports every other internal/octave/* package. It wires
// lexer -> parser -> schema -> validator -> (repair) -> emitter ->
// projector/seal into the three operations callers actually need —
// Validate, Write, and Eject — grounded in conduit's internal/tooling.API,
// which wraps the same lexer.New/parser.New pair behind a small set of
// request-shaped methods instead of exposing the compiler stages directly.
package octave

import (
	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/audit"
	"github.com/octave-lang/octave/internal/octave/emitter"
	"github.com/octave-lang/octave/internal/octave/lexer"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/parser"
	"github.com/octave-lang/octave/internal/octave/projector"
	"github.com/octave-lang/octave/internal/octave/repair"
	"github.com/octave-lang/octave/internal/octave/schema"
	"github.com/octave-lang/octave/internal/octave/seal"
	"github.com/octave-lang/octave/internal/octave/validator"
	"github.com/octave-lang/octave/internal/octaveconf"
)

// Status values shared across every façade response envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Pipeline is a configured entry point into the OCTAVE toolchain. It is
// safe for concurrent use: every method is a pure function of its input
// text plus the immutable config captured at construction.
type Pipeline struct {
	conf *octaveconf.Config
}

// New builds a Pipeline from octave.yml/octave.yaml (or built-in defaults
// when no config file is present).
func New() (*Pipeline, error) {
	conf, err := octaveconf.Load()
	if err != nil {
		return nil, err
	}
	return &Pipeline{conf: conf}, nil
}

// NewWithConfig builds a Pipeline from an already-loaded config, bypassing
// the filesystem — useful for tests and for callers embedding their own
// config flow.
func NewWithConfig(conf *octaveconf.Config) *Pipeline {
	return &Pipeline{conf: conf}
}

func (p *Pipeline) lexerOptions() lexer.Options {
	return lexer.Options{Strict: p.conf.Pipeline.Strict}
}

func (p *Pipeline) parserOptions() parser.Options {
	return parser.Options{Strict: p.conf.Pipeline.Strict}
}

func (p *Pipeline) emitOptions() emitter.Options {
	return emitter.Options{
		IndentWidth:           p.conf.Emit.IndentWidth,
		StripComments:         p.conf.Emit.StripComments,
		CanonicalizeOperators: p.conf.Emit.CanonicalizeOperators,
	}
}

// Correction is one lexer, parser, or repair-engine correction surfaced to
// the caller, each mapped to a stable code so tooling can key off it
// without parsing the message text.
type Correction struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidateResult is the response envelope for Validate.
type ValidateResult struct {
	Status               string                     `json:"status"`
	Errors               octaveerr.List             `json:"errors"`
	Warnings             []ast.Warning              `json:"warnings"`
	RoutingLog           []audit.RoutingEntry       `json:"routing_log"`
	ContainsLiteralZones bool                       `json:"contains_literal_zones"`
	LiteralZoneReceipts  []audit.LiteralZoneReceipt `json:"literal_zone_receipts"`
}

// Validate lexes, parses, extracts the schema, and runs the validator
// against source, never repairing or rewriting it. A failing invocation
// still returns a well-formed envelope with status "error" rather than a
// bare Go error, matching the tool-response contract every façade
// operation follows.
func (p *Pipeline) Validate(source string) *ValidateResult {
	toks, _, lexWarnings, lexErrs := lexer.New(source, p.lexerOptions()).ScanTokens()
	if len(lexErrs) > 0 {
		return &ValidateResult{Status: StatusError, Errors: lexErrs, RoutingLog: []audit.RoutingEntry{}}
	}

	doc, parseWarnings, parseErrs := parser.New(toks, p.parserOptions()).Parse()
	if len(parseErrs) > 0 {
		return &ValidateResult{Status: StatusError, Errors: parseErrs, RoutingLog: []audit.RoutingEntry{}}
	}

	def, schemaWarnings := schema.Extract(doc)
	result := validator.Validate(doc, def)

	warnings := make([]ast.Warning, 0, len(lexWarnings)+len(parseWarnings)+len(schemaWarnings)+len(result.Warnings))
	for _, w := range lexWarnings {
		warnings = append(warnings, ast.Warning{Type: w.Type, Line: w.Line, Column: w.Column, Message: w.Message})
	}
	warnings = append(warnings, parseWarnings...)
	warnings = append(warnings, schemaWarnings...)
	warnings = append(warnings, result.Warnings...)

	receipts := passthroughReceipts(doc, "validate")

	status := StatusOK
	if result.HasErrors() {
		status = StatusError
	}

	return &ValidateResult{
		Status:               status,
		Errors:               result.Errors,
		Warnings:             warnings,
		RoutingLog:           result.Routing.Entries,
		ContainsLiteralZones: len(receipts.Entries) > 0,
		LiteralZoneReceipts:  receipts.Entries,
	}
}

// WriteResult is the response envelope for Write.
type WriteResult struct {
	Status        string               `json:"status"`
	CanonicalText string               `json:"canonical_text"`
	Corrections   []Correction         `json:"corrections"`
	RoutingLog    []audit.RoutingEntry `json:"routing_log"`
	Errors        octaveerr.List       `json:"errors,omitempty"`
}

// Write lexes, parses, extracts the schema, optionally repairs (when fix is
// true), and emits source's canonical form. corrections is the union of
// every lexer/parser warning and repair-engine entry produced along the
// way, each carrying a stable code.
func (p *Pipeline) Write(source string, fix bool) *WriteResult {
	toks, lexRepairs, lexWarnings, lexErrs := lexer.New(source, p.lexerOptions()).ScanTokens()
	if len(lexErrs) > 0 {
		return &WriteResult{Status: StatusError, Errors: lexErrs, RoutingLog: []audit.RoutingEntry{}, Corrections: []Correction{}}
	}

	doc, parseWarnings, parseErrs := parser.New(toks, p.parserOptions()).Parse()
	if len(parseErrs) > 0 {
		return &WriteResult{Status: StatusError, Errors: parseErrs, RoutingLog: []audit.RoutingEntry{}, Corrections: []Correction{}}
	}

	def, schemaWarnings := schema.Extract(doc)
	repaired, repairLog := repair.Repair(doc, fix, def)
	result := validator.Validate(repaired, def)

	corrections := make([]Correction, 0, len(lexRepairs.Entries)+len(lexWarnings)+len(parseWarnings)+len(schemaWarnings)+len(repairLog.Entries))
	for _, e := range lexRepairs.Entries {
		corrections = append(corrections, Correction{Code: e.RuleID, Message: e.Before + " -> " + e.After})
	}
	for _, w := range lexWarnings {
		corrections = append(corrections, Correction{Code: w.Type, Message: w.Message, Line: w.Line, Column: w.Column})
	}
	for _, w := range parseWarnings {
		corrections = append(corrections, Correction{Code: w.Type, Message: w.Message, Line: w.Line, Column: w.Column})
	}
	for _, w := range schemaWarnings {
		corrections = append(corrections, Correction{Code: w.Type, Message: w.Message, Line: w.Line, Column: w.Column})
	}
	for _, e := range repairLog.Entries {
		corrections = append(corrections, Correction{Code: e.RuleID, Message: e.Before + " -> " + e.After})
	}

	canonical := emitter.Emit(repaired, p.emitOptions())

	status := StatusOK
	if result.HasErrors() {
		status = StatusError
	}

	return &WriteResult{
		Status:        status,
		CanonicalText: canonical,
		Corrections:   corrections,
		RoutingLog:    result.Routing.Entries,
		Errors:        result.Errors,
	}
}

// EjectResult is the response envelope for Eject. LiteralZoneReceipts is a
// supplemental field beyond the core {output, lossy, fields_omitted} shape,
// surfacing which literal zones a lossy projection stripped.
type EjectResult struct {
	Output              string                     `json:"output"`
	Lossy               bool                       `json:"lossy"`
	FieldsOmitted       []string                   `json:"fields_omitted"`
	LiteralZoneReceipts []audit.LiteralZoneReceipt `json:"literal_zone_receipts,omitempty"`
}

// Eject lexes, parses, and projects source down to the fields a given
// audience mode cares about (canonical, authoring, executive, developer).
func (p *Pipeline) Eject(source, mode string) (*EjectResult, octaveerr.List) {
	toks, _, _, lexErrs := lexer.New(source, p.lexerOptions()).ScanTokens()
	if len(lexErrs) > 0 {
		return nil, lexErrs
	}

	doc, _, parseErrs := parser.New(toks, p.parserOptions()).Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs
	}

	result := projector.Project(doc, mode, p.emitOptions())
	receipts := projectionReceipts(doc, result.FilteredDoc, "eject")

	return &EjectResult{
		Output:              result.Output,
		Lossy:               result.Lossy,
		FieldsOmitted:       result.FieldsOmitted,
		LiteralZoneReceipts: receipts.Entries,
	}, nil
}

// Seal canonicalizes source and returns its content digest alongside the
// invocation identifier correlating this call's audit trail.
func (p *Pipeline) Seal(source string) (text, digest, invocationID string, errs octaveerr.List) {
	toks, _, _, lexErrs := lexer.New(source, p.lexerOptions()).ScanTokens()
	if len(lexErrs) > 0 {
		return "", "", "", lexErrs
	}

	doc, _, parseErrs := parser.New(toks, p.parserOptions()).Parse()
	if len(parseErrs) > 0 {
		return "", "", "", parseErrs
	}

	text, digest = seal.Seal(doc, p.emitOptions())
	return text, digest, audit.NewInvocationID(), nil
}

// Verify re-parses and re-emits text to confirm the pipeline was
// idempotent on it since it was last sealed.
func (p *Pipeline) Verify(text string) (*seal.VerifyResult, octaveerr.List) {
	return seal.Verify(text, p.lexerOptions(), p.parserOptions(), p.emitOptions())
}
