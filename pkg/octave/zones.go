package octave

import (
	"sort"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/audit"
)

// zoneRef is a literal zone found somewhere in a document, addressed by the
// dotted path of keys leading to it (e.g. "FIELDS.EXAMPLE").
type zoneRef struct {
	Key     string
	Line    int
	Content string
}

// collectZones walks doc's top-level sections and returns every literal
// zone found, keyed by its dotted path. Literal zones never nest (a zone's
// Content is opaque fenced text, not a further AST), so the walk only needs
// to recurse through Block and Section children.
func collectZones(doc *ast.Document) map[string]zoneRef {
	out := make(map[string]zoneRef)
	for _, n := range doc.Sections {
		walkZones(n, "", out)
	}
	return out
}

func walkZones(node ast.Node, prefix string, out map[string]zoneRef) {
	switch n := node.(type) {
	case *ast.Assignment:
		lz, ok := n.Value.(ast.LiteralZone)
		if !ok {
			return
		}
		out[joinKey(prefix, n.Key)] = zoneRef{
			Key:     joinKey(prefix, n.Key),
			Line:    n.Loc.Line,
			Content: lz.Content,
		}
	case *ast.Block:
		for _, c := range n.Children {
			walkZones(c, joinKey(prefix, n.Key), out)
		}
	case *ast.Section:
		for _, c := range n.Children {
			walkZones(c, joinKey(prefix, n.Name), out)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// passthroughReceipts builds literal-zone receipts for a pipeline stage
// that never touches zone content (validate, write) — every zone found is
// reported preserved with identical pre/post hashes.
func passthroughReceipts(doc *ast.Document, stage string) *audit.LiteralZoneReceiptLog {
	log := &audit.LiteralZoneReceiptLog{}
	for _, z := range collectZones(doc) {
		h := audit.HashContent(z.Content)
		log.Add(z.Key, z.Line, audit.ActionPreserved, h, h, stage)
	}
	return log
}

// projectionReceipts compares the zones present before and after a
// projection: a zone surviving under the same key is preserved, one that
// disappears (its containing field was filtered out) is stripped.
func projectionReceipts(before, after *ast.Document, stage string) *audit.LiteralZoneReceiptLog {
	log := &audit.LiteralZoneReceiptLog{}
	beforeZones := collectZones(before)
	afterZones := collectZones(after)

	keys := make([]string, 0, len(beforeZones))
	for k := range beforeZones {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b := beforeZones[k]
		preHash := audit.HashContent(b.Content)
		if a, ok := afterZones[k]; ok {
			postHash := audit.HashContent(a.Content)
			log.Add(k, b.Line, audit.ActionPreserved, preHash, postHash, stage)
		} else {
			log.Add(k, b.Line, audit.ActionStripped, preHash, "", stage)
		}
	}
	return log
}

