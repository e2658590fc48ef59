package builtin

import (
	"regexp"
	"strings"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
)

var (
	delimiterRow  = regexp.MustCompile(`^ {0,3}\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	delimiterCell = regexp.MustCompile(`^(:?)-+(:?)$`)
)

// TableData is the data of table nodes.
type TableData struct {
	Align []markup.Alignment
	Body  int // number of body rows
}

// splitCells splits a table row at unescaped pipes. A leading and a
// trailing pipe are optional.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}
	var cells []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(line[start:i]))
			start = i + 1
		}
	}
	return append(cells, strings.TrimSpace(line[start:]))
}

func alignments(delims []string) []markup.Alignment {
	align := make([]markup.Alignment, len(delims))
	for i, d := range delims {
		m := delimiterCell.FindStringSubmatch(d)
		switch {
		case m == nil:
		case m[1] != "" && m[2] != "":
			align[i] = markup.AlignCenter
		case m[1] != "":
			align[i] = markup.AlignLeft
		case m[2] != "":
			align[i] = markup.AlignRight
		}
	}
	return align
}

// tableRow creates the child request for a row, padded or truncated to
// the number of columns.
func tableRow(line string, cols int) tree.Request {
	cells := splitCells(line)
	contents := make([]tree.Content, cols)
	for i := range contents {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		contents[i] = tree.MustContent(text, tree.AtLevel(tree.Inline))
	}
	return tree.Values(contents...)
}

func table() *rule.Rule {
	return &rule.Rule{
		Name:     Table,
		Level:    tree.Block,
		Priority: option.SomeInt(550),
		Start:    rule.PatternString(`(?m)^[^\n]*\|[^\n]*\n {0,3}\|?[ \t]*:?-+:?[ \t]*(?:\||$)`),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			header, n := firstLine(src)
			delims, dn := firstLine(src[n:])
			if !strings.Contains(header, "|") || !delimiterRow.MatchString(delims) {
				return nil, nil
			}
			align := alignments(splitCells(delims))
			if len(splitCells(header)) != len(align) {
				return nil, nil
			}
			rows := []tree.Request{tableRow(header, len(align))}
			pos := n + dn
			for pos < len(src) {
				line, ln := firstLine(src[pos:])
				if isBlank(line) || blockStart.MatchString(line) {
					break
				}
				rows = append(rows, tableRow(line, len(align)))
				pos += ln
			}
			rc.Tracer().Debugf("table with %d columns and %d body rows", len(align), len(rows)-1)
			req := tree.List(rows...)
			data := TableData{Align: align, Body: len(rows) - 1}
			return &rule.Result{Raw: src[:pos], Data: data, Children: &req}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			data := r.Node.Data.(TableData)
			var b strings.Builder
			row := func(i int, cell string) {
				b.WriteString("<tr>\n")
				cells := r.Children.At(i)
				for j := 0; j < cells.Len(); j++ {
					b.WriteString(markup.Element(cell, tree.Join(cells.At(j)), markup.AlignStyle(data.Align[j])))
					b.WriteByte('\n')
				}
				b.WriteString("</tr>\n")
			}
			b.WriteString("<table>\n<thead>\n")
			row(0, "th")
			b.WriteString("</thead>\n")
			if data.Body > 0 {
				b.WriteString("<tbody>\n")
				for i := 1; i <= data.Body; i++ {
					row(i, "td")
				}
				b.WriteString("</tbody>\n")
			}
			b.WriteString("</table>\n")
			return b.String(), nil
		},
	}
}
