// Package octaveerr provides structured error handling for the OCTAVE
// pipeline. It defines stable error codes and formatting for both
// human-readable terminal output and machine-parseable JSON, mirroring
// the shape of a compiler diagnostic rather than a bare Go error string.
package octaveerr

import (
	"encoding/json"
	"fmt"
)

// Code is a stable, user-facing error identifier.
type Code string

// Stable error codes.
const (
	CodeUnexpectedChar    Code = "E005"
	CodeUnterminatedZone  Code = "E006"
	CodeNestedZone        Code = "E007"
	CodeMissingRequired   Code = "E003"
	CodeTokenize          Code = "E_TOKENIZE"
	CodeParse             Code = "E_PARSE"
	CodeNestedInlineMap   Code = "E_NESTED_INLINE_MAP"
	CodeEnum              Code = "E_ENUM"
	CodeType              Code = "E_TYPE"
	CodeRegex             Code = "E_REGEX"
)

// Category groups related error codes for display and routing.
type Category string

const (
	CategoryLexical   Category = "lexical"
	CategorySyntax    Category = "syntax"
	CategoryValidate  Category = "validate"
)

// Severity indicates whether a diagnostic blocks the pipeline or merely warns.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Location is a 1-indexed source position.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a structured diagnostic carrying enough information for both a
// human-readable message and machine consumption (the "actionable remedy
// string" every diagnostic must carry).
type Error struct {
	Code       Code     `json:"code"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Location   Location `json:"location"`
	Lexeme     string   `json:"lexeme,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return Format(e)
}

// New constructs a structured Error.
func New(code Code, category Category, message string, line, column int) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Location: Location{Line: line, Column: column},
	}
}

// WithLexeme attaches the offending source text and returns the receiver.
func (e *Error) WithLexeme(lexeme string) *Error {
	e.Lexeme = lexeme
	return e
}

// WithSuggestion attaches an actionable remedy and returns the receiver.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// Format renders a human-readable message with source location.
func Format(e *Error) string {
	msg := fmt.Sprintf("%s at %d:%d: %s", e.Code, e.Location.Line, e.Location.Column, e.Message)
	if e.Lexeme != "" {
		msg += fmt.Sprintf(" (near %q)", e.Lexeme)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" — %s", e.Suggestion)
	}
	return msg
}

// ToJSON serializes the error for machine consumption.
func (e *Error) ToJSON() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal octave error: %w", err)
	}
	return string(b), nil
}

// List is an ordered collection of structured errors.
type List []*Error

// Error implements the error interface for a batch of diagnostics.
func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	out := ""
	for i, e := range l {
		if i > 0 {
			out += "\n"
		}
		out += e.Error()
	}
	return out
}
