// Package format provides the source formatter behind `monkey fmt`.
// Layout thresholds are configurable via these constants.
package format

// MaxLineWidth is the target maximum line length. Single-expression blocks
// stay on one line while they fit.
const MaxLineWidth = 92

// Indentation - gofmt style: tabs for indentation
const (
	TabWidth     = 4        // Display width of a tab character
	IndentWidth  = TabWidth // Each indent level is one tab
	IndentString = "\t"
)

// BlankLinesAroundDefs is the number of blank lines separating top-level
// function definitions from their neighbours.
const BlankLinesAroundDefs = 1
