package builtin

import (
	"regexp"
	"strings"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
)

var (
	linkText = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	linkDef  = regexp.MustCompile(`^ {0,3}\[((?:[^\]\\]|\\.)+)\]:[ \t]*(?:<([^>\n]*)>|(\S+))(?:[ \t]+(?:"([^"\n]*)"|'([^'\n]*)'|\(([^)\n]*)\)))?[ \t]*$`)
	tags     = regexp.MustCompile(`<[^>]*>`)
)

// LinkData is the data of link and image nodes, and the value of a link
// definition.
type LinkData struct {
	Dest  string
	Title string
}

// normLabel normalizes a link label for matching: case-folded, with runs of
// whitespace collapsed.
func normLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// parseLinkDef parses a link definition line. Footnote definitions
// ("[^label]:") are not link definitions.
func parseLinkDef(line string) (string, LinkData, bool) {
	m := linkDef.FindStringSubmatch(line)
	if m == nil || strings.HasPrefix(m[1], "^") || strings.TrimSpace(m[1]) == "" {
		return "", LinkData{}, false
	}
	dest := m[2] + m[3]
	title := m[4] + m[5] + m[6]
	return normLabel(m[1]), LinkData{Dest: unescape(dest), Title: unescape(title)}, true
}

// outsideFences calls f for every line of src which is not part of a
// fenced code block.
func outsideFences(src string, f func(line string)) {
	fence := ""
	for pos := 0; pos < len(src); {
		line, n := firstLine(src[pos:])
		pos += n
		switch {
		case fence != "":
			if isFenceClose(line, fence) {
				fence = ""
			}
		case fenceOpen.MatchString(line):
			fence = fenceOpen.FindStringSubmatch(line)[2]
		default:
			f(line)
		}
	}
}

// collectLinkDefs finds all link definitions of a document. The first
// definition of a label wins.
func collectLinkDefs(rc *rule.Context) (interface{}, error) {
	defs := make(map[string]LinkData)
	outsideFences(rc.Source(), func(line string) {
		if label, def, ok := parseLinkDef(line); ok {
			if _, dup := defs[label]; !dup {
				defs[label] = def
			}
		}
	})
	rc.Tracer().Debugf("%d link definitions", len(defs))
	return defs, nil
}

// parseInlineDest parses "(dest "title")" at the start of s. It returns
// the number of bytes consumed.
func parseInlineDest(s string) (LinkData, int, bool) {
	var ld LinkData
	if !strings.HasPrefix(s, "(") {
		return ld, 0, false
	}
	i := skipSpace(s, 1)
	if i < len(s) && s[i] == '<' {
		end := strings.IndexAny(s[i+1:], ">\n")
		if end < 0 || s[i+1+end] != '>' {
			return ld, 0, false
		}
		ld.Dest = s[i+1 : i+1+end]
		i += end + 2
	} else {
		start, depth := i, 0
	dest:
		for ; i < len(s); i++ {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s):
				i++
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break dest
				}
				depth--
			case c <= ' ':
				break dest
			}
		}
		ld.Dest = s[start:i]
	}
	j := skipSpace(s, i)
	if j < len(s) && j > i && strings.IndexByte(`"'(`, s[j]) >= 0 {
		closer := s[j]
		if closer == '(' {
			closer = ')'
		}
		k := j + 1
		for ; k < len(s) && s[k] != closer; k++ {
			if s[k] == '\\' {
				k++
			}
		}
		if k >= len(s) {
			return ld, 0, false
		}
		ld.Title = s[j+1 : k]
		j = skipSpace(s, k+1)
	}
	if j >= len(s) || s[j] != ')' {
		return ld, 0, false
	}
	ld.Dest, ld.Title = unescape(ld.Dest), unescape(ld.Title)
	return ld, j + 1, true
}

// skipSpace skips spaces, tabs and at most one newline.
func skipSpace(s string, i int) int {
	nl := false
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t':
		case '\n':
			if nl {
				return i
			}
			nl = true
		default:
			return i
		}
	}
	return i
}

// linkStart finds "[" (or "![" for images) outside of code spans.
func linkStart(image bool) rule.Matcher {
	return rule.Func(func(src string) int {
		return scanInline(src, func(i int) bool {
			if image {
				return strings.HasPrefix(src[i:], "![")
			}
			return src[i] == '[' && (i == 0 || src[i-1] != '!') && !strings.HasPrefix(src[i:], "[^")
		})
	})
}

// bracketed splits "[text]" at the start of src, after skipping prefix.
func bracketed(src string, prefix int) (text string, rest int, ok bool) {
	if prefix >= len(src) || src[prefix] != '[' {
		return "", 0, false
	}
	end := matchBracket(src, prefix)
	if end < 0 {
		return "", 0, false
	}
	return src[prefix+1 : end], end + 1, true
}

// reference resolves "[text][label]", "[text][]" and "[text]" at src.
func reference(rc *rule.Context, src string, prefix int) (string, LinkData, int, bool) {
	text, rest, ok := bracketed(src, prefix)
	if !ok {
		return "", LinkData{}, 0, false
	}
	if _, _, inline := parseInlineDest(src[rest:]); inline {
		return "", LinkData{}, 0, false
	}
	label := text
	if strings.HasPrefix(src[rest:], "[") {
		if end := strings.IndexByte(src[rest:], ']'); end > 0 {
			if l := src[rest+1 : rest+end]; l != "" {
				label = l
			}
			rest += end + 1
		}
	}
	defs, _ := rc.Value().(map[string]LinkData)
	def, found := defs[normLabel(label)]
	return text, def, rest, found
}

func renderLink(_ *rule.Context, r rule.Rendering) (string, error) {
	ld := r.Node.Data.(LinkData)
	return markup.Element("a", r.Child(), markup.Attr("href", ld.Dest), titleAttr(ld.Title)), nil
}

func renderImage(_ *rule.Context, r rule.Rendering) (string, error) {
	ld := r.Node.Data.(LinkData)
	alt := markup.Unescape(tags.ReplaceAllString(r.Child(), ""))
	return markup.Element("img", "", markup.Attr("src", ld.Dest), markup.Attr("alt", alt), titleAttr(ld.Title)), nil
}

func titleAttr(title string) html.Attribute {
	if title == "" {
		return html.Attribute{}
	}
	return markup.Attr("title", title)
}

func link() *rule.Rule {
	return &rule.Rule{
		Name:  Link,
		Level: tree.Inline,
		Start: linkStart(false),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			text, rest, ok := bracketed(src, 0)
			if !ok {
				return nil, nil
			}
			ld, n, ok := parseInlineDest(src[rest:])
			if !ok {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(text, tree.AtLevel(tree.Inline)))
			return &rule.Result{Raw: src[:rest+n], Data: ld, Children: &req}, nil
		},
		Render: renderLink,
	}
}

func image() *rule.Rule {
	return &rule.Rule{
		Name:  Image,
		Level: tree.Inline,
		Start: linkStart(true),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			alt, rest, ok := bracketed(src, 1)
			if !ok {
				return nil, nil
			}
			ld, n, ok := parseInlineDest(src[rest:])
			if !ok {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(alt, tree.AtLevel(tree.Atomic)))
			return &rule.Result{Raw: src[:rest+n], Data: ld, Children: &req}, nil
		},
		Render: renderImage,
	}
}

func linkReference() *rule.Rule {
	return &rule.Rule{
		Name:  LinkReference,
		Level: tree.Inline,
		Start: linkStart(false),
		Init:  collectLinkDefs,
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			text, ld, n, ok := reference(rc, src, 0)
			if !ok {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(text, tree.AtLevel(tree.Inline)))
			return &rule.Result{Raw: src[:n], Data: ld, Children: &req}, nil
		},
		Render: renderLink,
	}
}

func imageReference() *rule.Rule {
	return &rule.Rule{
		Name:  ImageReference,
		Level: tree.Inline,
		Start: linkStart(true),
		Init:  collectLinkDefs,
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			alt, ld, n, ok := reference(rc, src, 1)
			if !ok {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(alt, tree.AtLevel(tree.Atomic)))
			return &rule.Result{Raw: src[:n], Data: ld, Children: &req}, nil
		},
		Render: renderImage,
	}
}

// linkDefinition consumes link definitions, which render as nothing.
// Definitions are collected by the reference rules.
func linkDefinition() *rule.Rule {
	return &rule.Rule{
		Name:     LinkDefinition,
		Level:    tree.Block,
		Priority: option.SomeInt(450),
		Start:    rule.PatternString(`(?m)^ {0,3}\[[^^\]\n]`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			line, n := firstLine(src)
			if _, _, ok := parseLinkDef(line); !ok {
				return nil, nil
			}
			return &rule.Result{Raw: src[:n]}, nil
		},
		Render: func(*rule.Context, rule.Rendering) (string, error) {
			return "", nil
		},
	}
}
