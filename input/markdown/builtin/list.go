package builtin

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
	"golang.org/x/net/html"
)

var (
	bulletMarker  = regexp.MustCompile(`^( {0,3})([-+*])([ \t]+|$)`)
	orderedMarker = regexp.MustCompile(`^( {0,3})(\d{1,9})([.)])([ \t]+|$)`)
	taskMarker    = regexp.MustCompile(`^\[([ xX])\](?:[ \t]+|$)`)
)

// Task states of list items.
const (
	NoTask = iota
	OpenTask
	DoneTask
)

// ListData is the data of list nodes.
type ListData struct {
	Ordered bool
	Start   int
	Loose   bool
	Tasks   []int // task state per item
}

// marker is a parsed list item marker.
type marker struct {
	kind  string // bullet char or ordered delimiter
	num   int
	width int // columns up to the item content
}

func parseMarker(line string, ordered bool) (marker, string, bool) {
	var m []string
	var mk marker
	if ordered {
		if m = orderedMarker.FindStringSubmatch(line); m == nil {
			return mk, "", false
		}
		mk.num, _ = strconv.Atoi(m[2])
		mk.kind = m[3]
		m = []string{m[0], m[1], m[2] + m[3], m[4]}
	} else {
		if m = bulletMarker.FindStringSubmatch(line); m == nil {
			return mk, "", false
		}
		mk.kind = m[2]
	}
	rest := line[len(m[0]):]
	spaces := len(m[3])
	if spaces == 0 || spaces > 4 || isBlank(rest) {
		spaces = 1 // content starts right after the marker
		rest = strings.TrimLeft(line[len(m[1])+len(m[2]):], " \t")
	}
	mk.width = len(m[1]) + len(m[2]) + spaces
	return mk, rest, true
}

// listItem collects the content lines of one item.
type listItem struct {
	lines   []string
	pending int // blank lines not yet known to belong to the item
	blankIn bool
}

func (it *listItem) add(line string) {
	for ; it.pending > 0; it.pending-- {
		it.lines = append(it.lines, "")
		it.blankIn = true
	}
	it.lines = append(it.lines, line)
}

func parseList(rc *rule.Context, src string, ordered bool) (*rule.Result, error) {
	first, n := firstLine(src)
	if thematicBreakLine.MatchString(first) {
		return nil, nil
	}
	mk, rest, ok := parseMarker(first, ordered)
	if !ok {
		return nil, nil
	}
	data := ListData{Ordered: ordered, Start: mk.num}
	items := []*listItem{{lines: []string{rest}}}
	pos, end := n, n
scan:
	for pos < len(src) {
		line, ln := firstLine(src[pos:])
		cur := items[len(items)-1]
		switch {
		case isBlank(line):
			cur.pending++
		case indentOf(line) >= mk.width:
			cur.add(stripIndent(line, mk.width))
		case thematicBreakLine.MatchString(line):
			break scan
		default:
			if next, rest, ok := parseMarker(line, ordered); ok && next.kind == mk.kind {
				if cur.pending > 0 {
					data.Loose = true
				}
				mk = next
				items = append(items, &listItem{lines: []string{rest}})
			} else if cur.pending == 0 && !blockStart.MatchString(line) {
				cur.add(line) // lazy continuation
			} else {
				break scan
			}
		}
		pos += ln
		if !isBlank(line) {
			end = pos
		}
	}
	contents := make([]tree.Content, len(items))
	for _, it := range items {
		data.Loose = data.Loose || it.blankIn
	}
	wrap := tree.WithoutParagraphs()
	if data.Loose {
		wrap = tree.WithParagraphs()
	}
	for i, it := range items {
		text := strings.Join(it.lines, "\n") + "\n"
		task := NoTask
		if m := taskMarker.FindStringSubmatch(text); m != nil {
			task = OpenTask
			if m[1] != " " {
				task = DoneTask
			}
			text = text[len(m[0]):]
		}
		data.Tasks = append(data.Tasks, task)
		contents[i] = tree.MustContent(text, wrap)
	}
	rc.Tracer().Debugf("list with %d items, loose=%v", len(items), data.Loose)
	req := tree.Values(contents...)
	return &rule.Result{Raw: src[:end], Data: data, Children: &req}, nil
}

func renderList(_ *rule.Context, r rule.Rendering) (string, error) {
	data := r.Node.Data.(ListData)
	tag := "ul"
	var attrs []html.Attribute
	if data.Ordered {
		tag = "ol"
		if data.Start != 1 {
			attrs = append(attrs, markup.Attr("start", strconv.Itoa(data.Start)))
		}
	}
	var b strings.Builder
	b.WriteString(markup.Open(tag, attrs...))
	b.WriteByte('\n')
	for i := 0; i < r.Children.Len(); i++ {
		content := tree.Join(r.Children.At(i))
		var liAttrs []html.Attribute
		if i < len(data.Tasks) && data.Tasks[i] != NoTask {
			liAttrs = append(liAttrs, classAttr("task-list-item"))
			box := `<input type="checkbox" disabled>`
			if data.Tasks[i] == DoneTask {
				box = `<input type="checkbox" disabled checked>`
			}
			content = box + " " + content
		}
		b.WriteString(markup.Open("li", liAttrs...))
		if data.Loose && content != "" {
			b.WriteByte('\n')
		}
		b.WriteString(content)
		b.WriteString("</li>\n")
	}
	b.WriteString(markup.Close(tag))
	b.WriteByte('\n')
	return b.String(), nil
}

func orderedList() *rule.Rule {
	return &rule.Rule{
		Name:     OrderedList,
		Level:    tree.Block,
		Priority: option.SomeInt(400),
		Start:    rule.PatternString(`(?m)^ {0,3}\d{1,9}[.)](?:[ \t]|$)`),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			return parseList(rc, src, true)
		},
		Render: renderList,
	}
}

func unorderedList() *rule.Rule {
	return &rule.Rule{
		Name:     UnorderedList,
		Level:    tree.Block,
		Priority: option.SomeInt(400),
		Start:    rule.PatternString(`(?m)^ {0,3}[-+*](?:[ \t]|$)`),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			return parseList(rc, src, false)
		},
		Render: renderList,
	}
}
