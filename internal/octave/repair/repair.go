// Package repair implements stage 5: schema-driven correction of safe,
// fix-only issues in an already-parsed document. Grounded in
// original_source/core/repair_log.py's RepairTier enum
// (NORMALIZATION/REPAIR/FORBIDDEN) mirrored by internal/octave/audit, and
// in the two-pass sweep design note ("the repair engine's
// list-of-errors input is advisory... enum case-folding sweeps all
// enum-typed fields").
package repair

import (
	"strings"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/audit"
	"github.com/octave-lang/octave/internal/octave/schema"
)

// Repair returns a corrected document plus the repairs it made. The input
// tree is never mutated: unchanged subtrees are
// aliased from doc, and only the top-level Sections slice and any
// rewritten *ast.Assignment nodes are newly allocated.
//
// REPAIR-tier corrections only apply when fix is true; NORMALIZATION-tier
// repairs already happened in the lexer/parser and are not redone here.
// FORBIDDEN corrections (filling in a missing required field, inferring a
// routing target) are never attempted by this package at all.
func Repair(doc *ast.Document, fix bool, def *schema.Definition) (*ast.Document, audit.RepairLog) {
	var log audit.RepairLog
	if doc == nil || !fix || def == nil {
		return doc, log
	}

	sections := make([]ast.Node, len(doc.Sections))
	copy(sections, doc.Sections)

	// Repeat until a full pass makes no further change: case-folding a
	// value can only ever reach a fixed point (the schema-declared casing),
	// so this always terminates.
	for {
		changed := false
		for i, node := range sections {
			a, ok := node.(*ast.Assignment)
			if !ok {
				continue
			}
			fd, ok := def.Fields[a.Key]
			if !ok || fd.Pattern == nil {
				continue
			}
			newVal, did := repairValue(a.Value, fd.Pattern, &log)
			if !did {
				continue
			}
			clone := *a
			clone.Value = newVal
			sections[i] = &clone
			changed = true
		}
		if !changed {
			break
		}
	}

	out := *doc
	out.Sections = sections
	return &out, log
}

// repairValue applies the first applicable REPAIR-tier correction to v. A
// literal zone is returned untouched with no log entry: this type-guard
// runs before any other check ("the engine's first check
// on every value is a type-guard that returns it untouched").
func repairValue(v ast.Value, pattern *ast.Holographic, log *audit.RepairLog) (ast.Value, bool) {
	if _, ok := v.(ast.LiteralZone); ok {
		return v, false
	}

	scalar, ok := v.(ast.Scalar)
	if !ok {
		return v, false
	}

	if trimmed := strings.TrimSpace(scalar.Text); trimmed != scalar.Text {
		log.Add("trim_whitespace", scalar.Text, trimmed, audit.TierRepair, true, false)
		return ast.Scalar{Text: trimmed}, true
	}

	for _, c := range pattern.Constraints {
		switch c.Name {
		case "ENUM":
			if after, ok := foldEnumCase(scalar.Text, c.Args); ok {
				log.Add("enum_casefold", scalar.Text, after, audit.TierRepair, true, false)
				return ast.Scalar{Text: after}, true
			}
		case "TYPE":
			if len(c.Args) == 0 {
				continue
			}
			if coerced, ok := coerceType(scalar.Text, c.Args[0]); ok {
				log.Add("type_coercion", scalar.Text, coerced, audit.TierRepair, true, false)
				return ast.Scalar{Text: coerced}, true
			}
		}
	}
	return v, false
}

// foldEnumCase finds an allowed enum value that matches text
// case-insensitively but not exactly, and returns its schema-declared
// casing.
func foldEnumCase(text string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if text != a && strings.EqualFold(text, a) {
			return a, true
		}
	}
	return "", false
}

// coerceType rewrites text into the canonical representation its declared
// type demands, when text is an equivalent but non-canonical spelling
// (e.g. "yes"/"no"/"1"/"0" for a TYPE[bool] field).
func coerceType(text, typeName string) (string, bool) {
	switch strings.ToLower(typeName) {
	case "bool", "boolean":
		switch strings.ToLower(text) {
		case "true", "yes", "1":
			if text != "true" {
				return "true", true
			}
		case "false", "no", "0":
			if text != "false" {
				return "false", true
			}
		}
	}
	return text, false
}
