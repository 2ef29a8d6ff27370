// Package audit implements the append-only receipts that accompany every
// OCTAVE pipeline invocation: the repair log, the routing log, and the
// literal-zone preservation receipts. The shapes are grounded directly
// in the Python reference implementation's
// octave_mcp/core/repair_log.py and octave_mcp/core/routing.py.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// RepairTier classifies a correction by how automatic it is allowed to be.
type RepairTier string

const (
	// TierNormalization corrections are always applied (lexer/parser).
	TierNormalization RepairTier = "NORMALIZATION"
	// TierRepair corrections are applied only when the caller requests fix=true.
	TierRepair RepairTier = "REPAIR"
	// TierForbidden corrections are never applied automatically.
	TierForbidden RepairTier = "FORBIDDEN"
)

// RepairEntry records a single correction with enough detail to audit it.
type RepairEntry struct {
	RuleID           string     `json:"rule_id"`
	Before           string     `json:"before"`
	After            string     `json:"after"`
	Tier             RepairTier `json:"tier"`
	Safe             bool       `json:"safe"`
	SemanticsChanged bool       `json:"semantics_changed"`
}

// RepairLog is the append-only collection of corrections made during one
// pipeline invocation.
type RepairLog struct {
	Entries []RepairEntry `json:"repairs"`
}

// Add appends a repair entry.
func (l *RepairLog) Add(ruleID, before, after string, tier RepairTier, safe, semanticsChanged bool) {
	l.Entries = append(l.Entries, RepairEntry{
		RuleID:           ruleID,
		Before:           before,
		After:            after,
		Tier:             tier,
		Safe:             safe,
		SemanticsChanged: semanticsChanged,
	})
}

// HasRepairs reports whether any corrections were recorded.
func (l *RepairLog) HasRepairs() bool { return len(l.Entries) > 0 }

// RoutingEntry is a single audit record of a validated field's
// contribution to a named holographic-pattern target.
type RoutingEntry struct {
	SourcePath       string `json:"source_path"`
	TargetName       string `json:"target_name"`
	ValueHash        string `json:"value_hash"`
	ConstraintPassed bool   `json:"constraint_passed"`
	Timestamp        string `json:"timestamp"`
}

// RoutingLog is the append-only collection of routing entries produced by
// the validator during one invocation.
type RoutingLog struct {
	Entries []RoutingEntry `json:"routing_log"`
}

// nowFn is overridable in tests; defaults to UTC wall-clock time.
var nowFn = func() time.Time { return time.Now().UTC() }

// Add appends a routing entry, stamping it with the current UTC time.
func (l *RoutingLog) Add(sourcePath, targetName, valueHash string, constraintPassed bool) {
	l.Entries = append(l.Entries, RoutingEntry{
		SourcePath:       sourcePath,
		TargetName:       targetName,
		ValueHash:        valueHash,
		ConstraintPassed: constraintPassed,
		Timestamp:        nowFn().Format("2006-01-02T15:04:05.999999999Z"),
	})
}

// HasRoutes reports whether any routing entries were recorded.
func (l *RoutingLog) HasRoutes() bool { return len(l.Entries) > 0 }

// ComputeValueHash returns the SHA-256 hex digest of a value's canonical
// string form, matching octave_mcp.core.routing.compute_value_hash.
func ComputeValueHash(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// LiteralZoneAction is whether a literal zone's content survived the
// pipeline unchanged ("preserved") or was intentionally dropped by a
// lossy projection ("stripped").
type LiteralZoneAction string

const (
	ActionPreserved LiteralZoneAction = "preserved"
	ActionStripped  LiteralZoneAction = "stripped"
)

// LiteralZoneReceipt is a per-zone audit record proving (or disproving)
// content fidelity through the pipeline.
type LiteralZoneReceipt struct {
	ZoneKey      string            `json:"zone_key"`
	Line         int               `json:"line"`
	Action       LiteralZoneAction `json:"action"`
	PreHash      string            `json:"pre_hash"`
	PostHash     string            `json:"post_hash"`
	Timestamp    string            `json:"timestamp"`
	SourceStage  string            `json:"source_stage"`
}

// LiteralZoneReceiptLog aggregates the receipts for every literal zone in
// a document.
type LiteralZoneReceiptLog struct {
	Entries []LiteralZoneReceipt `json:"literal_zone_receipts"`
}

// Add appends a receipt, stamping it with the current UTC time.
func (l *LiteralZoneReceiptLog) Add(zoneKey string, line int, action LiteralZoneAction, preHash, postHash, stage string) {
	l.Entries = append(l.Entries, LiteralZoneReceipt{
		ZoneKey:     zoneKey,
		Line:        line,
		Action:      action,
		PreHash:     preHash,
		PostHash:    postHash,
		Timestamp:   nowFn().Format("2006-01-02T15:04:05.999999999Z"),
		SourceStage: stage,
	})
}

// AllPreserved is true iff every receipt shows preserved content with
// matching pre/post hashes.
func (l *LiteralZoneReceiptLog) AllPreserved() bool {
	for _, e := range l.Entries {
		if e.Action != ActionPreserved || e.PreHash != e.PostHash {
			return false
		}
	}
	return true
}

// HashContent is a convenience wrapper for hashing literal zone content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NewInvocationID mints a fresh identifier correlating every log fragment
// produced by one pipeline invocation, the same role conduit's ORM gives
// github.com/google/uuid for primary keys, generalized to a unit of work.
func NewInvocationID() string {
	return uuid.NewString()
}
