package display

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to width, preserving ANSI escape sequences. A
// non-positive width means DefaultWidth.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}

// WrapIndented wraps text to width and indents every line by n spaces.
func WrapIndented(text string, width int, n uint) string {
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - int(n)
	if inner < 1 {
		inner = 1
	}
	return indent.String(wordwrap.String(text, inner), n)
}

var titleCaser = cases.Title(language.English)

// Title title-cases s, treating underscores as spaces: "fast_learner"
// becomes "Fast Learner".
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
