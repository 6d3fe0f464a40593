// Package textnorm cleans text pulled out of carrier documents before any
// pattern matching happens. Schedules issued by Asian carriers routinely
// carry full-width digits and punctuation, no-break spaces, and uneven runs
// of whitespace left behind by PDF extraction.
package textnorm

import (
	"strings"

	"golang.org/x/text/width"
)

// Clean folds full-width runes to their canonical narrow form, replaces
// no-break spaces with plain spaces, and trims surrounding whitespace.
// It is the normalization applied to every cell value before matching.
func Clean(s string) string {
	s = width.Fold.String(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}

// Line additionally collapses interior whitespace runs to a single space,
// so line-oriented matching does not depend on how far apart the extractor
// placed two words.
func Line(s string) string {
	return strings.Join(strings.Fields(Clean(s)), " ")
}
