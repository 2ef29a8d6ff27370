package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/octave-lang/octave/internal/octave/ast"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/token"
)

// constructorNames are the known constructor forms from the holographic
// constraint grammar (REGEX["pattern"], ENUM[a,b], ...). Using one of these
// as a plain assignment key inside a list (REGEX::"pattern" instead of
// REGEX["pattern"]) is advisory-only per I1::SYNTACTIC_FIDELITY — it is
// never auto-fixed, only flagged with W_CONSTRUCTOR_MISUSE (GH#305).
var constructorNames = map[string]bool{
	"REGEX": true, "ENUM": true, "TYPE": true,
	"PATTERN": true, "NEVER": true, "ALWAYS": true,
}

// parseValue is the entry point of the value grammar, implementing the
// precedence-climbing cascade flow -> alternative -> constraint -> tension
// -> synthesis -> concat -> primary, directly modeled on conduit's
// parser/expressions.go operator-precedence chain but over OCTAVE's
// canonical operator set instead of a general-purpose expression language.
func (p *Parser) parseValue() ast.Value {
	return p.parseFlow()
}

func (p *Parser) parseFlow() ast.Value {
	left := p.parseAlternative()
	for p.check(token.FLOW) {
		p.advance()
		right := p.parseAlternative()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphFlow + canonicalOf(right)}
	}
	return left
}

func (p *Parser) parseAlternative() ast.Value {
	left := p.parseConstraint()
	for p.check(token.ALTERNATIVE) {
		p.advance()
		right := p.parseConstraint()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphAlternative + canonicalOf(right)}
	}
	return left
}

func (p *Parser) parseConstraint() ast.Value {
	left := p.parseTension()
	for p.check(token.CONSTRAINT) {
		p.advance()
		right := p.parseTension()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphConstraint + canonicalOf(right)}
	}
	return left
}

func (p *Parser) parseTension() ast.Value {
	left := p.parseSynthesis()
	for p.check(token.TENSION) {
		p.advance()
		right := p.parseSynthesis()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphTension + canonicalOf(right)}
	}
	return left
}

func (p *Parser) parseSynthesis() ast.Value {
	left := p.parseConcat()
	for p.check(token.SYNTHESIS) {
		p.advance()
		right := p.parseConcat()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphSynthesis + canonicalOf(right)}
	}
	return left
}

func (p *Parser) parseConcat() ast.Value {
	left := p.parsePrimaryWithAnnotation()
	for p.check(token.CONCAT) {
		p.advance()
		right := p.parsePrimaryWithAnnotation()
		left = ast.Flow{Canonical: canonicalOf(left) + token.GlyphConcat + canonicalOf(right)}
	}
	return left
}

// parsePrimaryWithAnnotation implements the GH#261 fix: whichever primary
// form was parsed, a trailing bracket annotation is always fully consumed
// here before control returns up the precedence chain, so it can never be
// mistaken for the start of a following list literal.
func (p *Parser) parsePrimaryWithAnnotation() ast.Value {
	v := p.parsePrimary()
	p.consumeTrailingBracketAnnotation()
	return v
}

func (p *Parser) parsePrimary() ast.Value {
	switch {
	case p.check(token.STRING):
		tok := p.advance()
		text, _ := tok.Literal.(string)
		return ast.Scalar{Text: text}
	case p.check(token.NUMBER):
		tok := p.advance()
		return ast.Scalar{Text: tok.Lexeme}
	case p.check(token.VARIABLE):
		tok := p.advance()
		pair, _ := tok.Literal.([2]string)
		return ast.Variable{Name: pair[0], Type: pair[1]}
	case p.check(token.IDENTIFIER):
		tok := p.advance()
		if tok.Lexeme == "null" {
			return ast.NullValue{}
		}
		return ast.Scalar{Text: tok.Lexeme}
	case p.check(token.FENCE_OPEN):
		return p.parseLiteralZone()
	case p.check(token.LIST_OPEN):
		return p.parseBracketValue()
	default:
		tok := p.peek()
		p.errorAt(fmt.Sprintf("unexpected token %s in value position", tok.Kind))
		if !p.isAtEnd() {
			p.advance()
		}
		return ast.Absent
	}
}

func (p *Parser) parseLiteralZone() ast.Value {
	open := p.advance() // FENCE_OPEN
	content := ""
	if p.check(token.LITERAL_CONTENT) {
		tok := p.advance()
		content, _ = tok.Literal.(string)
	}
	closeMarker := open.Lexeme
	if p.check(token.FENCE_CLOSE) {
		closeMarker = p.advance().Lexeme
	}
	return ast.LiteralZone{Content: content, FenceMarker: closeMarker}
}

// parseBracketValue parses a "[" ... "]" literal. Per the GH#246 fix, any
// item of the form KEY::VALUE (KEY being an IDENTIFIER or a NUMBER) becomes
// its own single-entry InlineMap rather than being flattened into separate
// list tokens; everything else is an ordinary value. The holographic
// pattern literal ("example" immediately followed by a constraint-chain
// operator) is recognized as a distinct special case ahead of the general
// list grammar.
func (p *Parser) parseBracketValue() ast.Value {
	open := p.advance() // LIST_OPEN

	if p.check(token.STRING) && (p.checkAt(1, token.CONSTRAINT) || p.checkAt(1, token.ALTERNATIVE) || p.checkAt(1, token.FLOW)) {
		return p.parseHolographic(open)
	}

	var items []ast.Value
	for !p.check(token.LIST_CLOSE) && !p.isAtEnd() {
		items = append(items, p.parseListItem())
		if p.check(token.COMMA) {
			p.advance()
		}
	}
	if p.check(token.LIST_CLOSE) {
		p.advance()
	} else {
		p.errorAt("unterminated list, expected ']'")
	}
	return ast.ListValue{Items: items}
}

func (p *Parser) parseListItem() ast.Value {
	if (p.check(token.IDENTIFIER) || p.check(token.NUMBER)) && p.checkAt(1, token.ASSIGN) {
		keyTok := p.advance()
		p.advance() // "::"

		if constructorNames[keyTok.Lexeme] {
			p.warn("W_CONSTRUCTOR_MISUSE", "constructor_misuse", keyTok.Lexeme,
				fmt.Sprintf("%s is a known constructor name; use %s[...] instead of %s::value",
					keyTok.Lexeme, keyTok.Lexeme, keyTok.Lexeme),
				keyTok.Line, keyTok.Column)
		}

		value := p.parseAtomicValue()
		m := &ast.InlineMap{}
		m.Set(keyTok.Lexeme, value)
		return m
	}
	return p.parseValue()
}

// parseAtomicValue parses a value in a position where the result must be
// atomic (the value side of an inline-map key::value pair). If the parsed
// value turns out to be an inline map, or a list containing one, it raises
// E_NESTED_INLINE_MAP (GH#185) instead of silently nesting it.
func (p *Parser) parseAtomicValue() ast.Value {
	tok := p.peek()
	v := p.parseValue()
	if containsInlineMap(v) {
		p.errs = append(p.errs, octaveerr.New(
			octaveerr.CodeNestedInlineMap, octaveerr.CategorySyntax,
			"inline maps cannot contain inline maps, use block structure instead",
			tok.Line, tok.Column,
		).WithSuggestion("replace the nested [key::value] with an indented block"))
		return ast.Absent
	}
	return v
}

func containsInlineMap(v ast.Value) bool {
	switch val := v.(type) {
	case *ast.InlineMap:
		return true
	case ast.ListValue:
		for _, item := range val.Items {
			if containsInlineMap(item) {
				return true
			}
		}
	}
	return false
}

func (p *Parser) parseHolographic(open token.Token) ast.Value {
	exampleTok := p.advance() // STRING
	example, _ := exampleTok.Literal.(string)

	var constraints []ast.Constraint
	for p.check(token.CONSTRAINT) || p.check(token.ALTERNATIVE) {
		p.advance()
		if !p.check(token.IDENTIFIER) {
			break
		}
		nameTok := p.advance()
		var args []string
		if p.check(token.LIST_OPEN) {
			p.advance()
			for !p.check(token.LIST_CLOSE) && !p.isAtEnd() {
				argTok := p.advance()
				args = append(args, argTok.Lexeme)
				if p.check(token.COMMA) {
					p.advance()
				}
			}
			if p.check(token.LIST_CLOSE) {
				p.advance()
			}
		}
		constraints = append(constraints, ast.Constraint{Name: nameTok.Lexeme, Args: args})
	}

	target := ""
	if p.check(token.FLOW) {
		p.advance()
		if p.check(token.SECTION_MARKER) {
			p.advance()
		}
		if p.check(token.IDENTIFIER) {
			target = p.advance().Lexeme
		}
	}

	if p.check(token.LIST_CLOSE) {
		p.advance()
	} else {
		p.errorAt("unterminated holographic pattern, expected ']'")
		p.warn("lenient_parse", "malformed_holographic", "",
			"holographic pattern was malformed and could not be fully parsed", open.Line, open.Column)
	}

	return ast.Holographic{Example: example, Constraints: constraints, Target: target}
}

// canonicalOf renders a Value to its compact canonical text form for use as
// an operand inside a Flow chain (e.g. "REQ" CONSTRAINT "OPT" -> "REQ∧OPT").
func canonicalOf(v ast.Value) string {
	switch val := v.(type) {
	case ast.Scalar:
		return val.Text
	case ast.Flow:
		return val.Canonical
	case ast.Variable:
		if val.Type != "" {
			return "$" + val.Name + ":" + val.Type
		}
		return "$" + val.Name
	case ast.NullValue:
		return "null"
	case ast.LiteralZone:
		return val.FenceMarker + val.Content + val.FenceMarker
	case ast.ListValue:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = canonicalOf(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *ast.InlineMap:
		parts := make([]string, len(val.Keys))
		for i, k := range val.Keys {
			item, _ := val.Get(k)
			parts[i] = k + "::" + canonicalOf(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}

// parseNumberLiteral converts a NUMBER lexeme to a float64. It is unexported
// and has no callers; the validator parses numbers itself with strconv.
func parseNumberLiteral(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}
