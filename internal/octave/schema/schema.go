// Package schema extracts a field-level schema definition (stage 3 of the
// pipeline) from an already-parsed ast.Document: the FIELDS block's
// holographic patterns, the POLICY block, and META's VERSION — the Go
// equivalent of original_source/core/schema_extractor.py's
// extract_schema_from_document, grounded structurally in conduit's own
// "walk the parsed tree, build a typed definition" shape
// (internal/orm/schema inspecting struct tags).
package schema

import (
	"fmt"

	"github.com/octave-lang/octave/internal/octave/ast"
)

// Unknown-fields policy values.
const (
	PolicyReject = "REJECT"
	PolicyWarn   = "WARN"
	PolicyAllow  = "ALLOW"
)

const (
	fieldsKey = "FIELDS"
	policyKey = "POLICY"
)

// FieldDef is one entry of a schema's FIELDS block.
type FieldDef struct {
	Name     string
	Required bool
	// Pattern is nil when the field's value was not a well-formed
	// holographic pattern; extraction still records the field and raises
	// a warning rather than failing (CE-3: malformed patterns must not be
	// silently accepted with no signal).
	Pattern  *ast.Holographic
	RawValue ast.Value
}

// Policy is the schema's POLICY block.
type Policy struct {
	Version       string
	UnknownFields string
}

// Definition is the extracted schema: name, version, ordered field
// definitions, and the unknown-fields policy.
type Definition struct {
	Name       string
	Version    string
	Fields     map[string]*FieldDef
	FieldOrder []string
	Policy     Policy
}

// Extract walks doc and returns its schema definition plus any
// extraction-time warnings (malformed holographic patterns, principally).
// Extraction never fails outright — per the lenient parsing philosophy, a
// malformed field is still recorded, with Pattern left nil, so a caller can
// decide whether that is fatal for its purposes.
func Extract(doc *ast.Document) (*Definition, []ast.Warning) {
	def := &Definition{
		Name:   doc.Name,
		Fields: make(map[string]*FieldDef),
		Policy: Policy{UnknownFields: PolicyAllow},
	}
	if doc.Meta != nil {
		if v, ok := doc.Meta.Get("VERSION"); ok {
			def.Version = ValueText(v)
		}
	}

	var warnings []ast.Warning
	for _, node := range doc.Sections {
		blk, ok := node.(*ast.Block)
		if !ok {
			continue
		}
		switch blk.Key {
		case fieldsKey:
			warnings = append(warnings, extractFields(def, blk)...)
		case policyKey:
			extractPolicy(def, blk)
		}
	}
	return def, warnings
}

func extractFields(def *Definition, blk *ast.Block) []ast.Warning {
	var warnings []ast.Warning
	for _, child := range blk.Children {
		assign, ok := child.(*ast.Assignment)
		if !ok {
			continue
		}
		fd := &FieldDef{Name: assign.Key, RawValue: assign.Value}
		if holo, ok := assign.Value.(ast.Holographic); ok {
			h := holo
			fd.Pattern = &h
			fd.Required = hasConstraint(h.Constraints, "REQ")
		} else {
			warnings = append(warnings, ast.Warning{
				Type:    "schema_extraction",
				Subtype: "malformed_holographic_pattern",
				Line:    assign.Loc.Line,
				Column:  assign.Loc.Column,
				Message: fmt.Sprintf(
					"FIELDS.%s: value %q is not a well-formed holographic pattern",
					assign.Key, ValueText(assign.Value)),
				Aux: map[string]string{"field": assign.Key},
			})
		}
		def.Fields[assign.Key] = fd
		def.FieldOrder = append(def.FieldOrder, assign.Key)
	}
	return warnings
}

func extractPolicy(def *Definition, blk *ast.Block) {
	for _, child := range blk.Children {
		assign, ok := child.(*ast.Assignment)
		if !ok {
			continue
		}
		switch assign.Key {
		case "VERSION":
			def.Policy.Version = ValueText(assign.Value)
		case "UNKNOWN_FIELDS":
			def.Policy.UnknownFields = ValueText(assign.Value)
		}
	}
}

func hasConstraint(constraints []ast.Constraint, name string) bool {
	for _, c := range constraints {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ValueText renders a Value to a plain-text form suitable for policy
// strings, warning messages, and (via internal/octave/validator)
// constraint comparisons. It deliberately does not reproduce the full
// canonical operator syntax the emitter would (that lives in
// internal/octave/emitter) — this is a diagnostic rendering only.
func ValueText(v ast.Value) string {
	switch val := v.(type) {
	case ast.Scalar:
		return val.Text
	case ast.NullValue:
		return "null"
	case ast.Flow:
		return val.Canonical
	case ast.Variable:
		if val.Type != "" {
			return "$" + val.Name + ":" + val.Type
		}
		return "$" + val.Name
	default:
		return fmt.Sprintf("%v", v)
	}
}
