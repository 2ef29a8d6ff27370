// Package validator implements stage 4 of the pipeline: checking a parsed
// document's top-level field values against a schema.Definition. The
// multi-layer shape (nullability -> field constraints and type-specific
// checks -> policy -> routing) is adapted from conduit's
// internal/orm/validation Engine.Validate, with nullability moved first and
// each layer checking a holographic-pattern constraint chain instead of an
// ORM field constraint.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/audit"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/schema"
)

// Result bundles a validation run's structured errors, lenient warnings, and
// audit logs.
type Result struct {
	Errors   octaveerr.List
	Warnings []ast.Warning
	Routing  audit.RoutingLog

	failedFields map[string]bool
}

// HasErrors reports whether validation failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// Validate checks doc's top-level assignments against def. It never mutates
// doc; structured errors and warnings accumulate and validation continues
// past the first failure, matching conduit's ValidationErrors accumulation
// pattern rather than failing fast.
func Validate(doc *ast.Document, def *schema.Definition) *Result {
	res := &Result{failedFields: make(map[string]bool)}
	values := topLevelAssignments(doc)

	validateNullability(def, values, res)
	validateConstraints(def, values, res)
	validatePolicy(def, values, res)
	validateRouting(def, values, res)

	return res
}

func topLevelAssignments(doc *ast.Document) map[string]*ast.Assignment {
	out := make(map[string]*ast.Assignment)
	for _, node := range doc.Sections {
		if a, ok := node.(*ast.Assignment); ok {
			out[a.Key] = a
		}
	}
	return out
}

// validateNullability is layer 1: a required field with no corresponding
// top-level assignment is E003_MISSING_REQUIRED.
func validateNullability(def *schema.Definition, values map[string]*ast.Assignment, res *Result) {
	for _, name := range def.FieldOrder {
		fd := def.Fields[name]
		if !fd.Required {
			continue
		}
		if _, ok := values[name]; ok {
			continue
		}
		res.Errors = append(res.Errors, octaveerr.New(
			octaveerr.CodeMissingRequired, octaveerr.CategoryValidate,
			fmt.Sprintf("required field %q is missing", name), 0, 0,
		))
	}
}

// validateConstraints is layers 2-3: for each present field with a parsed
// holographic pattern, check its value against every constraint in the
// chain (ENUM, TYPE, REGEX; REQ/OPT only affect nullability and are
// skipped here).
func validateConstraints(def *schema.Definition, values map[string]*ast.Assignment, res *Result) {
	for name, assign := range values {
		fd, ok := def.Fields[name]
		if !ok || fd.Pattern == nil {
			continue
		}
		text := schema.ValueText(assign.Value)
		for _, c := range fd.Pattern.Constraints {
			checkConstraint(name, text, c, assign.Loc, res)
		}
	}
}

func checkConstraint(field, value string, c ast.Constraint, loc ast.SourceLocation, res *Result) {
	switch c.Name {
	case "ENUM":
		if len(c.Args) == 0 {
			return
		}
		for _, allowed := range c.Args {
			if value == allowed {
				return
			}
		}
		res.fail(field, octaveerr.New(
			octaveerr.CodeEnum, octaveerr.CategoryValidate,
			fmt.Sprintf("%s: %q is not one of [%s]", field, value, strings.Join(c.Args, ", ")),
			loc.Line, loc.Column,
		))
	case "TYPE":
		if len(c.Args) == 0 {
			return
		}
		if !matchesType(value, c.Args[0]) {
			res.fail(field, octaveerr.New(
				octaveerr.CodeType, octaveerr.CategoryValidate,
				fmt.Sprintf("%s: %q does not match type %s", field, value, c.Args[0]),
				loc.Line, loc.Column,
			))
		}
	case "REGEX":
		if len(c.Args) == 0 {
			return
		}
		pattern := c.Args[0]
		re, err := regexp.Compile(pattern)
		if err != nil {
			res.fail(field, octaveerr.New(
				octaveerr.CodeRegex, octaveerr.CategoryValidate,
				fmt.Sprintf("%s: invalid regex constraint %q", field, pattern),
				loc.Line, loc.Column,
			))
			return
		}
		if !re.MatchString(value) {
			res.fail(field, octaveerr.New(
				octaveerr.CodeRegex, octaveerr.CategoryValidate,
				fmt.Sprintf("%s: %q does not match pattern %s", field, value, pattern),
				loc.Line, loc.Column,
			))
		}
	}
}

func (r *Result) fail(field string, e *octaveerr.Error) {
	r.Errors = append(r.Errors, e)
	r.failedFields[field] = true
}

func matchesType(value, typeName string) bool {
	switch strings.ToLower(typeName) {
	case "int", "integer":
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case "float", "number":
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case "bool", "boolean":
		_, err := strconv.ParseBool(value)
		return err == nil
	default:
		return true
	}
}

// validatePolicy is layer 4: fields present in the document but unknown to
// the schema are handled per POLICY.UNKNOWN_FIELDS.
func validatePolicy(def *schema.Definition, values map[string]*ast.Assignment, res *Result) {
	for name, assign := range values {
		if _, known := def.Fields[name]; known {
			continue
		}
		switch def.Policy.UnknownFields {
		case schema.PolicyReject:
			res.Errors = append(res.Errors, octaveerr.New(
				octaveerr.CodeType, octaveerr.CategoryValidate,
				fmt.Sprintf("unknown field %q is not permitted by schema policy", name),
				assign.Loc.Line, assign.Loc.Column,
			))
		case schema.PolicyWarn:
			res.Warnings = append(res.Warnings, ast.Warning{
				Type: "validation", Subtype: "unknown_field",
				Line: assign.Loc.Line, Column: assign.Loc.Column,
				Message: fmt.Sprintf("unknown field %q is not declared in schema", name),
				Aux:     map[string]string{"field": name},
			})
		}
	}
}

// validateRouting is layer 5: a field whose pattern carries a target
// (-> §TARGET) produces a RoutingEntry recording the constraint outcome,
// per Issue #103.
func validateRouting(def *schema.Definition, values map[string]*ast.Assignment, res *Result) {
	for name, assign := range values {
		fd, ok := def.Fields[name]
		if !ok || fd.Pattern == nil || fd.Pattern.Target == "" {
			continue
		}
		passed := !res.failedFields[name]
		res.Routing.Add(name, fd.Pattern.Target, audit.ComputeValueHash(schema.ValueText(assign.Value)), passed)
	}
}
