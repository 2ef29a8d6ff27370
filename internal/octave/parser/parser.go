// Package parser turns an OCTAVE token stream into an ast.Document.
// Structurally it follows conduit's internal/compiler/parser (a flat token
// slice, a current index, match/check/consume/advance helpers, and
// accumulate-and-synchronize error recovery), generalized from a DSL
// recursive-descent grammar to OCTAVE's envelope/META/indentation-driven
// document shape.
package parser

import (
	"fmt"
	"strings"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/token"
)

// Options configures a Parser.
type Options struct {
	// Strict is carried for symmetry with lexer.Options; the parser behaves
	// the same in both modes (constructor misuse stays advisory either way;
	// curly-brace repair is decided upstream in the lexer).
	Strict bool
}

// Parser consumes a token stream and builds an ast.Document.
type Parser struct {
	tokens  []token.Token
	current int
	strict  bool

	warnings []ast.Warning
	errs     octaveerr.List
	meta     *ast.InlineMap
}

// New constructs a Parser. INDENT/DEDENT pseudo-tokens are dropped up front:
// this parser drives block nesting off each statement token's Column
// instead, which is simpler and is not perturbed by comment-only or blank
// lines the way a stack kept in lockstep with INDENT/DEDENT tokens would be
// (see DESIGN.md). COMMENT tokens are kept; they are consumed explicitly by
// the statement parsers to implement leading/trailing comment attachment.
func New(tokens []token.Token, opts Options) *Parser {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.INDENT || t.Kind == token.DEDENT {
			continue
		}
		filtered = append(filtered, t)
	}
	return &Parser{tokens: filtered, strict: opts.Strict}
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (*ast.Document, []ast.Warning, octaveerr.List) {
	doc := &ast.Document{}

	if p.check(token.GRAMMAR_SENTINEL) {
		tok := p.advance()
		doc.GrammarVersion = tok.Lexeme
		core, pre, hasPre := strings.Cut(tok.Lexeme, "-")
		parts := strings.Split(core, ".")
		valid := len(parts) <= 3 &&
			(!hasPre || (pre != "" && strings.Trim(pre, ".-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") == ""))
		for _, part := range parts {
			valid = valid && part != "" && strings.Trim(part, "0123456789") == ""
		}
		if !valid {
			p.errs = append(p.errs, newParseError(
				fmt.Sprintf("malformed grammar version %q, expected MAJOR[.MINOR[.PATCH]][-PRERELEASE]", tok.Lexeme),
				tok.Line, tok.Column))
		}
	}

	if p.check(token.ENVELOPE_OPEN) {
		tok := p.advance()
		doc.Name, _ = tok.Literal.(string)
		doc.HasSeparator = true
		p.parseBody(doc, 0)
		if p.check(token.ENVELOPE_CLOSE) {
			p.advance()
		} else if !p.isAtEnd() {
			p.errorAt("expected ===END=== to close envelope")
		}
	} else {
		p.parseBody(doc, 0)
	}

	doc.Meta = p.meta
	doc.Warnings = p.warnings
	return doc, p.warnings, p.errs
}

func (p *Parser) parseBody(doc *ast.Document, parentCol int) {
	for {
		leading := p.takeLeadingComments()
		if p.isAtEnd() || p.check(token.ENVELOPE_CLOSE) {
			return
		}
		tok := p.peek()
		if tok.Column <= parentCol && parentCol > 0 {
			return
		}
		node, isMeta := p.parseStatement(leading)
		if node == nil && !isMeta {
			if p.isAtEnd() {
				return
			}
			p.advance() // error recovery: skip the offending token
			continue
		}
		if isMeta {
			continue
		}
		doc.Sections = append(doc.Sections, node)
	}
}

func (p *Parser) ensureMeta() *ast.InlineMap {
	if p.meta == nil {
		p.meta = &ast.InlineMap{}
	}
	return p.meta
}

// parseStatement parses one statement at the current position, given the
// leading comments already consumed by the caller. The second return value
// is true when the statement was a META block (already folded into p.meta
// rather than returned as a Node).
func (p *Parser) parseStatement(leading []string) (ast.Node, bool) {
	switch {
	case p.check(token.SECTION_MARKER):
		return p.parseSection(leading), false
	case p.check(token.IDENTIFIER) && p.peek().Lexeme == token.KeyMeta && p.checkAt(1, token.BLOCK):
		p.parseMetaBlock()
		return nil, true
	case p.check(token.IDENTIFIER) && p.checkAt(1, token.ASSIGN):
		return p.parseAssignment(leading), false
	case p.check(token.IDENTIFIER) && p.checkAt(1, token.BLOCK):
		return p.parseBlock(leading), false
	default:
		tok := p.peek()
		p.errorAt(fmt.Sprintf("unexpected token %s, expected a key, section marker, or block", tok.Kind))
		return nil, false
	}
}

func (p *Parser) parseMetaBlock() {
	header := p.advance() // "META"
	p.advance()            // ":"
	headerCol := header.Column

	for {
		leading := p.takeLeadingComments()
		if p.isAtEnd() {
			return
		}
		tok := p.peek()
		if tok.Column <= headerCol {
			return
		}
		if !(p.check(token.IDENTIFIER) && p.checkAt(1, token.ASSIGN)) {
			p.advance()
			continue
		}
		assign := p.parseAssignment(leading)
		p.ensureMeta().Set(assign.Key, assign.Value)
	}
}

func (p *Parser) parseSection(leading []string) *ast.Section {
	marker := p.advance() // SECTION_MARKER
	var sectionID string
	if p.check(token.NUMBER) || p.check(token.IDENTIFIER) {
		idTok := p.advance()
		sectionID = idTok.Lexeme
		// A suffixed id such as "2b" lexes as NUMBER "2" directly followed by
		// IDENTIFIER "b"; rejoin the two.
		if idTok.Kind == token.NUMBER && p.check(token.IDENTIFIER) &&
			p.peek().Line == idTok.Line && p.peek().Column == idTok.Column+len([]rune(idTok.Lexeme)) {
			sectionID += p.advance().Lexeme
		}
	}
	if p.check(token.ASSIGN) {
		p.advance()
	} else {
		p.errorAt("expected '::' after section id")
	}
	name := ""
	if p.check(token.IDENTIFIER) {
		name = p.advance().Lexeme
	}
	annotation := p.consumeTrailingBracketAnnotation()

	sec := &ast.Section{
		SectionID:  sectionID,
		Name:       name,
		Annotation: annotation,
		Loc:        ast.TokenLocation(marker.Line, marker.Column),
	}
	_ = leading

	if p.check(token.BLOCK) {
		p.advance()
	}
	sec.Children = p.parseChildren(marker.Column)
	return sec
}

func (p *Parser) parseBlock(leading []string) *ast.Block {
	keyTok := p.advance() // IDENTIFIER
	p.advance()           // ":"
	blk := &ast.Block{
		Key: keyTok.Lexeme,
		Loc: ast.TokenLocation(keyTok.Line, keyTok.Column),
	}
	_ = leading
	blk.Children = p.parseChildren(keyTok.Column)
	return blk
}

func (p *Parser) parseChildren(headerCol int) []ast.Node {
	var children []ast.Node
	for {
		leading := p.takeLeadingComments()
		if p.isAtEnd() || p.check(token.ENVELOPE_CLOSE) {
			return children
		}
		tok := p.peek()
		if tok.Column <= headerCol {
			return children
		}
		if tok.Kind == token.IDENTIFIER && tok.Lexeme == token.KeyMeta && p.checkAt(1, token.BLOCK) {
			p.parseMetaBlock()
			continue
		}
		node, isMeta := p.parseStatement(leading)
		if isMeta {
			continue
		}
		if node == nil {
			if p.isAtEnd() {
				return children
			}
			p.advance() // error recovery: skip the offending token
			continue
		}
		children = append(children, node)
	}
}

func (p *Parser) parseAssignment(leading []string) *ast.Assignment {
	keyTok := p.advance() // IDENTIFIER
	p.advance()           // "::"
	value := p.parseValue()
	trailing := ""
	if p.check(token.COMMENT) {
		trailing, _ = p.advance().Literal.(string)
	}
	return &ast.Assignment{
		Key:             keyTok.Lexeme,
		Value:           value,
		LeadingComments: leading,
		TrailingComment: trailing,
		Loc:             ast.TokenLocation(keyTok.Line, keyTok.Column),
	}
}

// takeLeadingComments consumes and returns any COMMENT tokens immediately
// preceding the next statement (GH#297: these must not disturb indentation
// tracking, which column-based nesting already guarantees for free).
func (p *Parser) takeLeadingComments() []string {
	var out []string
	for p.check(token.COMMENT) {
		text, _ := p.advance().Literal.(string)
		out = append(out, text)
	}
	return out
}

// consumeTrailingBracketAnnotation implements the GH#261 fix: every
// value-producing path funnels through here so a bracket annotation after a
// value (or after a section name) is always fully consumed as a discarded
// annotation, never left to be misparsed as the start of a following list.
func (p *Parser) consumeTrailingBracketAnnotation() string {
	if !p.check(token.LIST_OPEN) {
		return ""
	}
	var sb strings.Builder
	depth := 0
	for {
		if p.isAtEnd() {
			break
		}
		tok := p.peek()
		if tok.Kind == token.LIST_OPEN {
			depth++
			sb.WriteString("[")
			p.advance()
			continue
		}
		if tok.Kind == token.LIST_CLOSE {
			depth--
			sb.WriteString("]")
			p.advance()
			if depth == 0 {
				break
			}
			continue
		}
		sb.WriteString(tok.Lexeme)
		p.advance()
		if depth == 0 {
			break
		}
	}
	return sb.String()
}

// --- token navigation, grounded in conduit's parser.go helpers ---

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(off int) token.Token {
	idx := p.current + off
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) checkAt(off int, k token.Kind) bool { return p.peekAt(off).Kind == k }

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) errorAt(message string) {
	tok := p.peek()
	p.errs = append(p.errs, newParseError(message, tok.Line, tok.Column))
}

func (p *Parser) warn(wtype, subtype, key, message string, line, col int) {
	p.warnings = append(p.warnings, ast.Warning{
		Type: wtype, Subtype: subtype, Line: line, Column: col, Message: message,
		Aux: map[string]string{"key": key},
	})
}
