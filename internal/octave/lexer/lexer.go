// Package lexer tokenizes OCTAVE source text. It is a rune scanner in the
// same shape as conduit's internal/compiler/lexer (start/current/line/column
// tracking, advance/peek/match helpers, scanToken dispatch), extended with
// the responsibilities unique to OCTAVE: fenced literal zones that must
// never be normalized or tokenized, Unicode NFC normalization of everything
// else, ASCII operator-alias folding logged as NORMALIZATION-tier repairs,
// and indentation tracking outside bracketed constructs.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/octave-lang/octave/internal/octave/audit"
	"github.com/octave-lang/octave/internal/octave/octaveerr"
	"github.com/octave-lang/octave/internal/octave/token"
)

// LenientWarning is a non-fatal diagnostic such as a W_REPAIR_CANDIDATE hint.
// In lenient mode it accompanies the automatic repair; in strict mode the
// same hint is returned alongside the E005 error that replaces the repair.
type LenientWarning struct {
	Type    string
	Line    int
	Column  int
	Message string
}

// Options configures a Lexer.
type Options struct {
	// Strict disables auto-repair of recoverable lexical issues (e.g. the
	// NAME{qualifier} curly-brace pattern); such issues become E005 errors
	// instead, each still carrying a W_REPAIR_CANDIDATE hint.
	Strict bool
	Logger *zap.Logger
}

// Lexer scans OCTAVE source text into a token stream.
type Lexer struct {
	strict bool
	log    *zap.Logger

	src  []rune
	pos  int
	line int
	col  int

	lineOffsets []int
	zones       []zoneInfo
	zoneByLine  map[int]*zoneInfo

	bracketDepth int
	indentStack  []int

	tokens   []token.Token
	repairs  audit.RepairLog
	warnings []LenientWarning
	errs     octaveerr.List
}

type zoneInfo struct {
	startLine   int // fence-open line, 1-indexed
	endLine     int // fence-close line, 1-indexed
	indent      int
	fenceOpen   string
	fenceClose  string
	infoTag     string
	content     string
}

// New constructs a Lexer over source.
func New(source string, opts Options) *Lexer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rawLines := strings.Split(source, "\n")
	zones, zoneErrs := scanZones(rawLines)

	processed := make([]string, len(rawLines))
	inZone := make([]bool, len(rawLines))
	for _, z := range zones {
		for i := z.startLine; i <= z.endLine; i++ {
			inZone[i-1] = true
		}
	}
	for i, ln := range rawLines {
		if inZone[i] {
			processed[i] = ln
			continue
		}
		processed[i] = norm.NFC.String(ln)
	}
	joined := strings.Join(processed, "\n")

	lineOffsets := make([]int, len(processed)+1)
	offset := 0
	runes := []rune(joined)
	lineOffsets[0] = 0
	lineNo := 1
	for i, r := range runes {
		if r == '\n' {
			lineNo++
			lineOffsets[lineNo-1] = i + 1
		}
	}
	_ = offset

	zoneByLine := make(map[int]*zoneInfo, len(zones))
	zs := make([]zoneInfo, len(zones))
	copy(zs, zones)
	for i := range zs {
		zoneByLine[zs[i].startLine] = &zs[i]
	}

	l := &Lexer{
		strict:      opts.Strict,
		log:         logger,
		src:         runes,
		pos:         0,
		line:        1,
		col:         1,
		lineOffsets: lineOffsets,
		zones:       zs,
		zoneByLine:  zoneByLine,
	}
	for _, e := range zoneErrs {
		l.errs = append(l.errs, e)
		logger.Debug("lexical error",
			zap.String("code", string(e.Code)),
			zap.String("category", string(e.Category)),
			zap.Int("line", e.Location.Line),
			zap.Int("column", e.Location.Column),
		)
	}
	return l
}

// ScanTokens runs the lexer to completion and returns the token stream
// alongside its normalization repairs, lenient warnings, and any lexical
// errors encountered. Scanning continues past individual errors (matching
// conduit's lexer) so a caller sees every problem in one pass; the pipeline
// facade is what refuses to proceed to parsing when errs is non-empty.
func (l *Lexer) ScanTokens() ([]token.Token, audit.RepairLog, []LenientWarning, octaveerr.List) {
	for !l.isAtEnd() {
		if l.col == 1 {
			if z, ok := l.zoneByLine[l.line]; ok {
				l.emitZone(z)
				continue
			}
			if l.scanLineStart() {
				continue
			}
		}
		l.scanToken()
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Line: l.line, Column: l.col})
	return l.tokens, l.repairs, l.warnings, l.errs
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) matchString(s string) bool {
	rs := []rune(s)
	for i, r := range rs {
		if l.peekAt(i) != r {
			return false
		}
	}
	for range rs {
		l.advance()
	}
	return true
}

func (l *Lexer) addErr(code octaveerr.Code, category octaveerr.Category, msg string, line, col int) *octaveerr.Error {
	e := octaveerr.New(code, category, msg, line, col)
	l.errs = append(l.errs, e)
	l.log.Debug("lexical error",
		zap.String("code", string(code)),
		zap.String("category", string(category)),
		zap.Int("line", line),
		zap.Int("column", col),
	)
	return e
}

// emitZone jumps the scanner over an entire literal zone, emitting exactly
// three tokens for it: FENCE_OPEN, LITERAL_CONTENT, FENCE_CLOSE.
func (l *Lexer) emitZone(z *zoneInfo) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   token.FENCE_OPEN,
		Lexeme: z.fenceOpen,
		Line:   z.startLine,
		Column: z.indent + 1,
	})
	l.tokens = append(l.tokens, token.Token{
		Kind:    token.LITERAL_CONTENT,
		Lexeme:  z.content,
		Literal: z.content,
		Line:    z.startLine + 1,
		Column:  1,
	})
	l.tokens = append(l.tokens, token.Token{
		Kind:   token.FENCE_CLOSE,
		Lexeme: z.fenceClose,
		Line:   z.endLine,
		Column: 1,
	})

	nextLine := z.endLine + 1
	if nextLine < len(l.lineOffsets) {
		l.pos = l.lineOffsets[nextLine-1]
	} else {
		l.pos = len(l.src)
	}
	l.line = nextLine
	l.col = 1
}

// scanLineStart handles indentation, blank lines, and comment-only lines at
// the start of a logical line (bracketDepth == 0 only — inside a bracketed
// list, leading whitespace on a continuation line is ordinary whitespace).
// Returns true if it fully consumed the line (caller should loop again).
func (l *Lexer) scanLineStart() bool {
	if l.bracketDepth > 0 {
		return false
	}

	start := l.pos
	startCol := l.col
	indent := 0
	sawTab := false
	for {
		c := l.peek()
		if c == ' ' {
			l.advance()
			indent++
		} else if c == '\t' {
			sawTab = true
			l.advance()
			indent++
		} else {
			break
		}
	}

	c := l.peek()
	if c == 0 || c == '\n' {
		if c == '\n' {
			l.advance()
		}
		return true
	}
	if c == '/' && l.peekAt(1) == '/' {
		commentLine, commentCol := l.line, l.col
		var sb strings.Builder
		for !l.isAtEnd() && l.peek() != '\n' {
			sb.WriteRune(l.advance())
		}
		l.tokens = append(l.tokens, token.Token{
			Kind: token.COMMENT, Lexeme: sb.String(), Literal: strings.TrimSpace(strings.TrimPrefix(sb.String(), "//")),
			Line: commentLine, Column: commentCol,
		})
		if l.peek() == '\n' {
			l.advance()
		}
		return true
	}

	if sawTab {
		l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
			"tab characters are not allowed outside literal zones", l.line, startCol).
			WithSuggestion("replace leading tabs with spaces")
	}
	_ = start

	top := 0
	if n := len(l.indentStack); n > 0 {
		top = l.indentStack[n-1]
	}
	if indent > top {
		l.indentStack = append(l.indentStack, indent)
		l.tokens = append(l.tokens, token.Token{Kind: token.INDENT, Line: l.line, Column: indent + 1})
	} else if indent < top {
		for len(l.indentStack) > 0 && l.indentStack[len(l.indentStack)-1] > indent {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.tokens = append(l.tokens, token.Token{Kind: token.DEDENT, Line: l.line, Column: indent + 1})
		}
	}
	return false
}

// scanToken dispatches on the current rune to produce the next token,
// mirroring conduit's lexer.scanToken switch but over OCTAVE's vocabulary.
func (l *Lexer) scanToken() {
	line, col := l.line, l.col
	c := l.advance()

	switch {
	case c == '=' && l.peek() == '=' && l.peekAt(1) == '=':
		l.scanEnvelope(line, col)
	case c == '"':
		l.scanString(line, col)
	case c == '$':
		l.scanVariable(line, col)
	case c == '[':
		l.bracketDepth++
		l.tokens = append(l.tokens, token.Token{Kind: token.LIST_OPEN, Lexeme: "[", Line: line, Column: col})
	case c == ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		l.tokens = append(l.tokens, token.Token{Kind: token.LIST_CLOSE, Lexeme: "]", Line: line, Column: col})
	case c == ',':
		l.tokens = append(l.tokens, token.Token{Kind: token.COMMA, Lexeme: ",", Line: line, Column: col})
	case c == ':':
		if l.peek() == ':' {
			l.advance()
			l.tokens = append(l.tokens, token.Token{Kind: token.ASSIGN, Lexeme: "::", Line: line, Column: col})
		} else {
			l.tokens = append(l.tokens, token.Token{Kind: token.BLOCK, Lexeme: ":", Line: line, Column: col})
		}
	case c == '/' && l.peek() == '/':
		l.advance() // second '/'
		var sb strings.Builder
		for !l.isAtEnd() && l.peek() != '\n' {
			sb.WriteRune(l.advance())
		}
		l.tokens = append(l.tokens, token.Token{
			Kind: token.COMMENT, Lexeme: "//" + sb.String(), Literal: strings.TrimSpace(sb.String()),
			Line: line, Column: col,
		})
	case c == '§':
		l.emitSectionMarker("§", line, col)
	case c == '#':
		l.foldAlias("#", token.GlyphSection, line, col)
		l.emitSectionMarker(token.GlyphSection, line, col)
	case c == '⧺', c == '⊕', c == '⇌', c == '∧', c == '∨', c == '→':
		l.emitCanonicalGlyph(string(c), line, col)
	case c == '-' && l.peek() == '-' && l.peekAt(1) == '-':
		// "---" separator after META: consumed without emitting a token;
		// META already ends at the first line that is not indented under it.
		for l.peek() == '-' {
			l.advance()
		}
	case c == '-' && l.peek() == '>':
		l.advance()
		l.foldAlias("->", token.GlyphFlow, line, col)
		l.emitCanonicalGlyph(token.GlyphFlow, line, col)
	case c == '-' && unicode.IsDigit(l.peek()):
		l.scanNumber(line, col, true)
	case c == '<' && l.peek() == '-' && l.peekAt(1) == '>':
		l.advance()
		l.advance()
		l.foldAlias("<->", token.GlyphTension, line, col)
		l.emitCanonicalGlyph(token.GlyphTension, line, col)
	case c == '+':
		l.foldAlias("+", token.GlyphSynthesis, line, col)
		l.emitCanonicalGlyph(token.GlyphSynthesis, line, col)
	case c == '~':
		l.foldAlias("~", token.GlyphConcat, line, col)
		l.emitCanonicalGlyph(token.GlyphConcat, line, col)
	case c == '&':
		l.foldAlias("&", token.GlyphConstraint, line, col)
		l.emitCanonicalGlyph(token.GlyphConstraint, line, col)
	case c == '|':
		l.foldAlias("|", token.GlyphAlternative, line, col)
		l.emitCanonicalGlyph(token.GlyphAlternative, line, col)
	case unicode.IsDigit(c):
		l.pos--
		l.col--
		l.scanNumber(line, col, false)
	case isIdentStart(c):
		l.pos--
		l.col--
		l.scanIdentifier(line, col)
	case c == ' ' || c == '\t':
		// intra-line whitespace between tokens; nothing to emit.
	case c == '\n':
		// handled via advance(); nothing to emit (conduit also tracks
		// newlines without emitting a NEWLINE token).
	default:
		l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
			fmt.Sprintf("unexpected character %q", c), line, col).WithLexeme(string(c))
	}
}

func (l *Lexer) emitCanonicalGlyph(glyph string, line, col int) {
	kind, ok := token.GlyphKind[glyph]
	if !ok {
		return
	}
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: glyph, Line: line, Column: col})
}

func (l *Lexer) emitSectionMarker(glyph string, line, col int) {
	l.tokens = append(l.tokens, token.Token{Kind: token.SECTION_MARKER, Lexeme: glyph, Line: line, Column: col})
}

// foldAlias logs a NORMALIZATION-tier repair for an ASCII operator alias
// folded to its canonical glyph.
func (l *Lexer) foldAlias(original, canonical string, line, col int) {
	l.repairs.Add(
		fmt.Sprintf("ALIAS_FOLD_%d_%d", line, col),
		original,
		canonical,
		audit.TierNormalization,
		true,
		false,
	)
}

func (l *Lexer) scanEnvelope(line, col int) {
	l.advance() // second '='
	l.advance() // third '='
	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != '\n' {
		sb.WriteRune(l.advance())
	}
	text := sb.String()
	if !strings.HasSuffix(text, "===") {
		l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
			"malformed envelope marker, expected ===NAME===", line, col).WithLexeme("===" + text)
		return
	}
	name := strings.TrimSuffix(text, "===")
	lexeme := "===" + text
	if name == "END" {
		l.tokens = append(l.tokens, token.Token{Kind: token.ENVELOPE_CLOSE, Lexeme: lexeme, Line: line, Column: col})
		return
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.ENVELOPE_OPEN, Lexeme: lexeme, Literal: name, Line: line, Column: col})
}

func (l *Lexer) scanString(line, col int) {
	triple := l.peek() == '"' && l.peekAt(1) == '"'
	if triple {
		l.advance()
		l.advance()
	}
	var sb strings.Builder
	for {
		if l.isAtEnd() {
			l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
				"unterminated string literal", line, col)
			break
		}
		if triple {
			if l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		} else if l.peek() == '"' {
			l.advance()
			break
		}
		c := l.advance()
		if c == '\\' && !l.isAtEnd() {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(c)
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Line: line, Column: col})
}

func (l *Lexer) scanVariable(line, col int) {
	if !isIdentStart(l.peek()) {
		l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
			"'$' must be followed by a variable name", line, col)
		return
	}
	var name strings.Builder
	for isIdentPart(l.peek()) {
		name.WriteRune(l.advance())
	}
	typ := ""
	if l.peek() == ':' && l.peekAt(1) != ':' {
		l.advance()
		var t strings.Builder
		for isIdentPart(l.peek()) {
			t.WriteRune(l.advance())
		}
		typ = t.String()
	}
	lexeme := "$" + name.String()
	if typ != "" {
		lexeme += ":" + typ
	}
	l.tokens = append(l.tokens, token.Token{
		Kind:    token.VARIABLE,
		Lexeme:  lexeme,
		Literal: [2]string{name.String(), typ},
		Line:    line,
		Column:  col,
	})
}

func (l *Lexer) scanNumber(line, col int, negative bool) {
	var sb strings.Builder
	if negative {
		sb.WriteRune('-')
	}
	for unicode.IsDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}
	isFloat := false
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		isFloat = true
		sb.WriteRune(l.advance())
		for unicode.IsDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		saveCol := l.col
		saveLine := l.line
		var exp strings.Builder
		exp.WriteRune(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			exp.WriteRune(l.advance())
		}
		if unicode.IsDigit(l.peek()) {
			isFloat = true
			for unicode.IsDigit(l.peek()) {
				exp.WriteRune(l.advance())
			}
			sb.WriteString(exp.String())
		} else {
			l.pos, l.col, l.line = save, saveCol, saveLine
		}
	}
	text := sb.String()
	var literal interface{}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			literal = f
		}
	} else {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			literal = n
		}
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.NUMBER, Lexeme: text, Literal: literal, Line: line, Column: col})
}

func (l *Lexer) scanIdentifier(line, col int) {
	var sb strings.Builder
	for isIdentPart(l.peek()) {
		sb.WriteRune(l.advance())
	}
	name := sb.String()

	if name == "vs" {
		l.foldAlias("vs", token.GlyphTension, line, col)
		l.emitCanonicalGlyph(token.GlyphTension, line, col)
		return
	}

	if name == token.KeyOctave && l.peek() == ':' && l.peekAt(1) == ':' {
		l.scanGrammarSentinel(line, col)
		return
	}

	if l.peek() == '{' {
		l.scanCurlyAnnotation(name, line, col)
		return
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.IDENTIFIER, Lexeme: name, Line: line, Column: col})
}

// scanGrammarSentinel handles the optional leading "OCTAVE::VERSION" line.
// The version text (e.g. "5.1.0" or "5.1.0-rc1") does not fit the ordinary
// NUMBER/IDENTIFIER grammar, so it is captured as the raw remainder of the
// line rather than re-dispatched through scanToken.
func (l *Lexer) scanGrammarSentinel(line, col int) {
	l.advance()
	l.advance()

	for l.peek() == ' ' {
		l.advance()
	}
	sentinelCol := l.col
	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != '\n' {
		sb.WriteRune(l.advance())
	}
	version := strings.TrimSpace(sb.String())
	l.tokens = append(l.tokens, token.Token{
		Kind: token.GRAMMAR_SENTINEL, Lexeme: version, Literal: version,
		Line: line, Column: sentinelCol,
	})
}

// scanCurlyAnnotation implements the NAME{qualifier} repair candidate:
// strict mode raises E005 with a W_REPAIR_CANDIDATE hint attached; lenient
// mode rewrites to NAME<qualifier> and logs a REPAIR-tier entry.
func (l *Lexer) scanCurlyAnnotation(name string, line, col int) {
	startPos, startLine, startCol := l.pos, l.line, l.col
	l.advance() // '{'
	var qualifier strings.Builder
	for !l.isAtEnd() && l.peek() != '}' && l.peek() != '\n' {
		qualifier.WriteRune(l.advance())
	}
	if l.peek() != '}' {
		l.pos, l.line, l.col = startPos, startLine, startCol
		l.tokens = append(l.tokens, token.Token{Kind: token.IDENTIFIER, Lexeme: name, Line: line, Column: col})
		return
	}
	l.advance() // '}'

	original := fmt.Sprintf("%s{%s}", name, qualifier.String())
	repaired := fmt.Sprintf("%s<%s>", name, qualifier.String())

	if l.strict {
		l.addErr(octaveerr.CodeUnexpectedChar, octaveerr.CategoryLexical,
			"curly-brace annotation is not valid OCTAVE syntax", line, col).
			WithLexeme(original).
			WithSuggestion(fmt.Sprintf("W_REPAIR_CANDIDATE: use angle brackets, e.g. %s", repaired))
		l.warnings = append(l.warnings, LenientWarning{
			Type: "W_REPAIR_CANDIDATE", Line: line, Column: col,
			Message: fmt.Sprintf("%s would repair to %s", original, repaired),
		})
		return
	}

	l.repairs.Add("CURLY_TO_ANGLE", original, repaired, audit.TierRepair, true, false)
	l.warnings = append(l.warnings, LenientWarning{
		Type: "W_REPAIR_CANDIDATE", Line: line, Column: col,
		Message: fmt.Sprintf("%s repaired to %s", original, repaired),
	})
	l.tokens = append(l.tokens, token.Token{Kind: token.IDENTIFIER, Lexeme: repaired, Original: original, Line: line, Column: col})
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

// scanZones performs the line-based pre-pass that carves fenced literal
// zones out of the source before any normalization or tokenization touches
// them, since zone content must never be NFC-normalized or re-indented. It
// returns the zones found in source order and any E006/E007 errors.
func scanZones(lines []string) ([]zoneInfo, []*octaveerr.Error) {
	var zones []zoneInfo
	var errs []*octaveerr.Error

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		run := leadingBackticks(trimmed)
		if run < 3 {
			i++
			continue
		}
		rest := trimmed[run:]
		infoTag := strings.TrimSpace(rest)
		fenceOpen := strings.Repeat("`", run)
		openLine := i + 1

		var content []string
		j := i + 1
		closed := false
		for j < len(lines) {
			cl := lines[j]
			clTrimmed := strings.TrimSpace(cl)
			closeRun := leadingBackticks(clTrimmed)
			if closeRun >= 3 {
				after := strings.TrimSpace(clTrimmed[closeRun:])
				if after == "" {
					if closeRun >= run {
						zones = append(zones, zoneInfo{
							startLine:  openLine,
							endLine:    j + 1,
							indent:     indent,
							fenceOpen:  fenceOpen,
							fenceClose: strings.Repeat("`", closeRun),
							infoTag:    infoTag,
							content:    strings.Join(content, "\n"),
						})
						closed = true
						i = j + 1
						break
					}
					content = append(content, cl)
					j++
					continue
				}
				if closeRun >= run {
					errs = append(errs, octaveerr.New(octaveerr.CodeNestedZone, octaveerr.CategoryLexical,
						"ambiguous nested fence: a fence-length-or-longer backtick run with trailing content appears inside an open literal zone",
						j+1, indent+1).WithLexeme(cl))
					return zones, errs
				}
				content = append(content, cl)
				j++
				continue
			}
			content = append(content, cl)
			j++
		}
		if !closed {
			errs = append(errs, octaveerr.New(octaveerr.CodeUnterminatedZone, octaveerr.CategoryLexical,
				"unterminated literal zone: no matching closing fence before end of input",
				openLine, indent+1).WithLexeme(fenceOpen))
			return zones, errs
		}
	}
	return zones, errs
}

func leadingBackticks(s string) int {
	n := 0
	for _, r := range s {
		if r != '`' {
			break
		}
		n++
	}
	return n
}
