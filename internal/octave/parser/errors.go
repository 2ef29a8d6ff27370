package parser

import "github.com/octave-lang/octave/internal/octave/octaveerr"

// newParseError mirrors conduit's parser/errors.go NewParseError constructor,
// adapted to OCTAVE's structured octaveerr.Error shape.
func newParseError(message string, line, col int) *octaveerr.Error {
	return octaveerr.New(octaveerr.CodeParse, octaveerr.CategorySyntax, message, line, col)
}
