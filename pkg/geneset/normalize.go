// Package geneset implements the set combinatorics and enrichment core behind
// the Venn builder and GO/KEGG explorer: item normalization, exact multi-set
// intersections, hypergeometric over-representation tests with optional
// Benjamini-Hochberg correction, and tabular export.
package geneset

import (
	"regexp"
	"strings"
)

// Delimiter selects how raw pasted text is split into tokens.
type Delimiter int

const (
	Auto Delimiter = iota
	Newline
	Comma
	Tab
	Semicolon
	Pipe
)

// regexp
var (
	splitAuto      = regexp.MustCompile(`[\n,\t;|]+`)
	splitNewline   = regexp.MustCompile(`\n+`)
	splitComma     = regexp.MustCompile(`,+`)
	splitTab       = regexp.MustCompile(`\t+`)
	splitSemicolon = regexp.MustCompile(`;+`)
	splitPipe      = regexp.MustCompile(`\|+`)
)

func (d Delimiter) pattern() *regexp.Regexp {
	switch d {
	case Newline:
		return splitNewline
	case Comma:
		return splitComma
	case Tab:
		return splitTab
	case Semicolon:
		return splitSemicolon
	case Pipe:
		return splitPipe
	default:
		return splitAuto
	}
}

// ParseDelimiter maps the form/flag value to a Delimiter, defaulting to Auto.
func ParseDelimiter(s string) Delimiter {
	switch strings.ToLower(s) {
	case "newline", "newlines":
		return Newline
	case "comma", "commas":
		return Comma
	case "tab", "tabs":
		return Tab
	case "semicolon", "semicolons":
		return Semicolon
	case "pipe", "pipes":
		return Pipe
	default:
		return Auto
	}
}

// Normalize splits raw text into a canonical token set. Consecutive separators
// collapse, tokens are space-trimmed, empties and the missing-value sentinel
// "nan" are dropped. With caseSensitive false tokens are lower-cased before
// insertion, so tokens differing only in case merge into one entry.
func Normalize(raw string, policy Delimiter, caseSensitive bool) map[string]bool {
	var items = make(map[string]bool)
	if raw == "" {
		return items
	}
	for _, part := range policy.pattern().Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "nan") {
			continue
		}
		if !caseSensitive {
			part = strings.ToLower(part)
		}
		items[part] = true
	}
	return items
}

// FlattenTable joins 2-D cell content row-major into one newline-separated
// stream so multi-column uploads run through the same splitting rule.
func FlattenTable(rows [][]string) string {
	var cells []string
	for _, row := range rows {
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			cells = append(cells, cell)
		}
	}
	return strings.Join(cells, "\n")
}
