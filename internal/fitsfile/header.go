package fitsfile

import (
	"fmt"
	"io"
	"strings"
)

const headerRuleWidth = 50

// PrintHeader writes every header card of doc, framed by rules, to w.
func PrintHeader(w io.Writer, doc *Document) {
	rule := strings.Repeat("=", headerRuleWidth)
	fmt.Fprintf(w, "Header of the file: %s\n", doc.Path)
	fmt.Fprintln(w, rule)
	for _, line := range HeaderLines(doc.Cards) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, rule)
}

// HeaderLines renders cards as "KEY = value / comment" lines. Commentary cards
// (COMMENT, HISTORY, blank keys) are printed without the "=".
func HeaderLines(cards []Card) []string {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		switch c.Name {
		case "COMMENT", "HISTORY", "":
			lines = append(lines, strings.TrimRight(fmt.Sprintf("%-8s %s", c.Name, c.Comment+stripQuotes(c.Value)), " "))
			continue
		}
		line := fmt.Sprintf("%-8s= %s", c.Name, c.Value)
		if c.Comment != "" {
			line += " / " + c.Comment
		}
		lines = append(lines, line)
	}
	return lines
}

func stripQuotes(v string) string {
	return strings.Trim(v, "'")
}
