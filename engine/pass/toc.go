package pass

import (
	"strings"

	"golang.org/x/net/html"
)

// Entry is one heading in the table of contents.
type Entry struct {
	Depth  int    // heading level, 1 to 6
	Title  string // plain text
	Anchor string // anchor id without '#'
}

// TOC collects headings in document order.
type TOC struct {
	entries []Entry
}

// Add appends a heading.
func (toc *TOC) Add(depth int, title, anchor string) {
	toc.entries = append(toc.entries, Entry{Depth: depth, Title: title, Anchor: anchor})
}

// Entries returns the collected headings.
func (toc *TOC) Entries() []Entry {
	return toc.entries
}

// Len returns the number of headings.
func (toc *TOC) Len() int {
	return len(toc.entries)
}

// HTML renders the headings as nested unordered lists. Headings shallower
// than the first one are kept at the outermost list.
func (toc *TOC) HTML() string {
	if len(toc.entries) == 0 {
		return ""
	}
	var b strings.Builder
	var open []int // depths of open lists
	for _, e := range toc.entries {
		switch {
		case len(open) == 0:
			b.WriteString("<ul>\n")
			open = append(open, e.Depth)
		case e.Depth > open[len(open)-1]:
			b.WriteString("\n<ul>\n")
			open = append(open, e.Depth)
		default:
			for len(open) > 1 && e.Depth < open[len(open)-1] {
				b.WriteString("</li>\n</ul>\n")
				open = open[:len(open)-1]
			}
			b.WriteString("</li>\n")
		}
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(e.Anchor))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString("</a>")
	}
	for range open {
		b.WriteString("</li>\n</ul>\n")
	}
	return b.String()
}
