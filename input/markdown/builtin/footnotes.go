package builtin

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
)

var (
	footnoteLabel = regexp.MustCompile(`^ {0,3}\[\^([^\]\s]+)\]:[ \t]*`)
	footnoteUse   = regexp.MustCompile(`^\[\^([^\]\s]+)\]`)
)

// FootnoteData is the data of footnote definitions and references.
type FootnoteData struct {
	Key string // anchor-safe label
	Num int    // 1-based, in order of definition
	ID  string // anchor id of a reference
}

// footnotes numbers the footnote definitions of a document.
type footnotes struct {
	num map[string]int
}

func footnoteKey(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, label)
}

func collectFootnotes(rc *rule.Context, reserve bool) *footnotes {
	fns := &footnotes{num: make(map[string]int)}
	outsideFences(rc.Source(), func(line string) {
		m := footnoteLabel.FindStringSubmatch(line)
		if m == nil {
			return
		}
		key := footnoteKey(m[1])
		if _, dup := fns.num[key]; dup {
			return
		}
		fns.num[key] = len(fns.num) + 1
		if reserve && !rc.Anchors().Reserve("fn-"+key) {
			rc.Tracer().Infof("anchor fn-%s already taken", key)
		}
	})
	return fns
}

func footnoteDef() *rule.Rule {
	return &rule.Rule{
		Name:     FootnoteDef,
		Level:    tree.Block,
		Priority: option.SomeInt(500),
		Start:    rule.PatternString(`(?m)^ {0,3}\[\^[^\]\s]+\]:`),
		Init: func(rc *rule.Context) (interface{}, error) {
			return collectFootnotes(rc, true), nil
		},
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			first, n := firstLine(src)
			m := footnoteLabel.FindStringSubmatch(first)
			if m == nil {
				return nil, nil
			}
			key := footnoteKey(m[1])
			lines := []string{first[len(m[0]):]}
			pos, end, pending := n, n, 0
			for pos < len(src) {
				line, ln := firstLine(src[pos:])
				switch {
				case isBlank(line):
					pending++
				case indentOf(line) >= 4:
					for ; pending > 0; pending-- {
						lines = append(lines, "")
					}
					lines = append(lines, stripIndent(line, 4))
				case pending == 0 && !blockStart.MatchString(line) && !footnoteLabel.MatchString(line):
					lines = append(lines, line) // lazy continuation
				default:
					pending = -1
				}
				if pending < 0 {
					break
				}
				pos += ln
				if !isBlank(line) {
					end = pos
				}
			}
			fns := rc.Value().(*footnotes)
			data := FootnoteData{Key: key, Num: fns.num[key]}
			req := tree.Single(tree.MustContent(strings.Join(lines, "\n")+"\n", tree.WithParagraphs()))
			return &rule.Result{Raw: src[:end], Data: data, Children: &req}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			data := r.Node.Data.(FootnoteData)
			var b strings.Builder
			b.WriteString(markup.Open("div", classAttr("footnote"), markup.Attr("id", "fn-"+data.Key)))
			b.WriteString("\n<sup>" + strconv.Itoa(data.Num) + "</sup>\n")
			b.WriteString(r.Child())
			b.WriteString(markup.Element("a", "↩", markup.Attr("href", "#fnref-"+data.Key), classAttr("footnote-backref")))
			b.WriteString("\n</div>\n")
			return b.String(), nil
		},
	}
}

func footnoteRef() *rule.Rule {
	return &rule.Rule{
		Name:  FootnoteRef,
		Level: tree.Atomic,
		Start: rule.Literal("[^"),
		Init: func(rc *rule.Context) (interface{}, error) {
			return collectFootnotes(rc, false), nil
		},
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			m := footnoteUse.FindStringSubmatch(src)
			if m == nil || strings.HasPrefix(src[len(m[0]):], ":") {
				return nil, nil
			}
			key := footnoteKey(m[1])
			num, ok := rc.Value().(*footnotes).num[key]
			if !ok {
				rc.Tracer().Debugf("undefined footnote %q", m[1])
				return nil, nil
			}
			data := FootnoteData{Key: key, Num: num, ID: rc.Anchors().Slug("fnref-" + key)}
			return &rule.Result{Raw: m[0], Data: data}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			data := r.Node.Data.(FootnoteData)
			a := markup.Element("a", strconv.Itoa(data.Num), markup.Attr("href", "#fn-"+data.Key))
			return markup.Element("sup", a, classAttr("footnote-ref"), markup.Attr("id", data.ID)), nil
		},
	}
}
