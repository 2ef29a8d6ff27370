// Package projector implements stage 7: filtering a document tree down to
// the subset of top-level fields a given audience mode cares about, then
// re-serializing the filtered tree. Grounded in the mode/keep-set/subtree
// behavior pinned by original_source/tests/unit/test_projection.py.
package projector

import (
	"sort"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/emitter"
)

// Mode selects which top-level fields survive projection.
type Mode string

const (
	ModeCanonical Mode = "canonical"
	ModeAuthoring Mode = "authoring"
	ModeExecutive Mode = "executive"
	ModeDeveloper Mode = "developer"
)

// executiveKeep and developerKeep are the closed sets each lossy mode
// retains. Any mode name that is not one of the four recognized values
// (including the empty string) falls back to the lossless canonical path.
var executiveKeep = map[string]bool{"STATUS": true, "RISKS": true, "DECISIONS": true}
var developerKeep = map[string]bool{"TESTS": true, "CI": true, "DEPS": true}

// executiveOmitDomain and developerOmitDomain are the field names the
// *other* audience cares about — always reported as omitted by a given
// mode regardless of whether the input document actually carries them.
var executiveOmitDomain = []string{"DECISIONS", "RISKS", "STATUS"}
var developerOmitDomain = []string{"CI", "DEPS", "TESTS"}

// Result is the record a projection produces: the filtered tree, its
// serialized form, whether the projection was lossy, and which top-level
// fields were omitted.
type Result struct {
	FilteredDoc   *ast.Document
	Output        string
	Lossy         bool
	FieldsOmitted []string
}

// Project filters doc per mode and re-emits the result with emitOpts.
// canonical and authoring are lossless (a shallow clone, nothing omitted);
// executive and developer keep a closed field set; any other mode name
// (including unrecognized ones) defaults to canonical.
func Project(doc *ast.Document, mode string, emitOpts emitter.Options) *Result {
	switch Mode(mode) {
	case ModeExecutive:
		return projectFiltered(doc, executiveKeep, developerOmitDomain, emitOpts)
	case ModeDeveloper:
		return projectFiltered(doc, developerKeep, executiveOmitDomain, emitOpts)
	default:
		return projectLossless(doc, emitOpts)
	}
}

func projectLossless(doc *ast.Document, emitOpts emitter.Options) *Result {
	clone := *doc
	return &Result{
		FilteredDoc:   &clone,
		Output:        emitter.Emit(&clone, emitOpts),
		Lossy:         false,
		FieldsOmitted: []string{},
	}
}

func projectFiltered(doc *ast.Document, keep map[string]bool, otherDomain []string, emitOpts emitter.Options) *Result {
	omitted := make(map[string]bool, len(otherDomain))
	for _, name := range otherDomain {
		omitted[name] = true
	}

	kept := make([]ast.Node, 0, len(doc.Sections))
	for _, n := range doc.Sections {
		fn, ok := filterNode(n, keep)
		if ok {
			kept = append(kept, fn)
			continue
		}
		if k := nodeKey(n); k != "" {
			omitted[k] = true
		}
	}

	names := make([]string, 0, len(omitted))
	for name := range omitted {
		names = append(names, name)
	}
	sort.Strings(names)

	clone := *doc
	clone.Sections = kept
	return &Result{
		FilteredDoc:   &clone,
		Output:        emitter.Emit(&clone, emitOpts),
		Lossy:         true,
		FieldsOmitted: names,
	}
}

// filterNode applies the subtree-preservation rule: a node whose own key
// is in keep survives with every descendant untouched, regardless of what
// those descendants are named. A node whose key is not in keep survives
// only if at least one descendant does, in which case it is cloned with
// just the surviving children attached.
func filterNode(node ast.Node, keep map[string]bool) (ast.Node, bool) {
	switch n := node.(type) {
	case *ast.Assignment:
		if keep[n.Key] {
			return n, true
		}
		return nil, false
	case *ast.Block:
		if keep[n.Key] {
			return n, true
		}
		children := filterChildren(n.Children, keep)
		if len(children) == 0 {
			return nil, false
		}
		clone := *n
		clone.Children = children
		return &clone, true
	case *ast.Section:
		if keep[n.Name] {
			return n, true
		}
		children := filterChildren(n.Children, keep)
		if len(children) == 0 {
			return nil, false
		}
		clone := *n
		clone.Children = children
		return &clone, true
	default:
		return nil, false
	}
}

func filterChildren(children []ast.Node, keep map[string]bool) []ast.Node {
	var kept []ast.Node
	for _, c := range children {
		if fc, ok := filterNode(c, keep); ok {
			kept = append(kept, fc)
		}
	}
	return kept
}

func nodeKey(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Assignment:
		return v.Key
	case *ast.Block:
		return v.Key
	case *ast.Section:
		return v.Name
	default:
		return ""
	}
}
