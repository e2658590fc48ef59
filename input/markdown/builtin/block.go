package builtin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
	"golang.org/x/net/html"
)

// --- Fenced code -----------------------------------------------------------

var fenceOpen = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})[ \t]*([^\n]*?)[ \t]*$")

// CodeData is the data of code-fence and code-indent nodes.
type CodeData struct {
	Lang string
	Code string
}

func codeFence() *rule.Rule {
	return &rule.Rule{
		Name:     CodeFence,
		Level:    tree.Block,
		Priority: option.SomeInt(900),
		Start:    rule.PatternString("(?m)^ {0,3}(?:```|~~~)"),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			first, n := firstLine(src)
			m := fenceOpen.FindStringSubmatch(first)
			if m == nil || (m[2][0] == '`' && strings.Contains(m[3], "`")) {
				return nil, nil
			}
			indent, fence := len(m[1]), m[2]
			var code strings.Builder
			pos := n
			for pos < len(src) {
				line, ln := firstLine(src[pos:])
				pos += ln
				if isFenceClose(line, fence) {
					break
				}
				code.WriteString(stripIndent(line, indent))
				code.WriteByte('\n')
			}
			lang := ""
			if fields := strings.Fields(unescape(m[3])); len(fields) > 0 {
				lang = fields[0]
			}
			rc.Tracer().Debugf("fenced code, lang=%q", lang)
			return &rule.Result{Raw: src[:pos], Data: CodeData{Lang: lang, Code: code.String()}}, nil
		},
		Render: renderCode,
	}
}

func isFenceClose(line, fence string) bool {
	if indentOf(line) > 3 {
		return false
	}
	t := strings.TrimSpace(line)
	return len(t) >= len(fence) && strings.Trim(t, fence[:1]) == ""
}

func renderCode(_ *rule.Context, r rule.Rendering) (string, error) {
	data := r.Node.Data.(CodeData)
	var attrs []string
	if data.Lang != "" {
		attrs = append(attrs, "language-"+data.Lang)
	}
	code := markup.Element("code", markup.Escape(data.Code), classAttr(attrs...))
	return markup.Element("pre", code) + "\n", nil
}

// --- Indented code ---------------------------------------------------------

// findIndentedCode finds an indented line which starts the text or follows
// a blank line, as indented code cannot interrupt a paragraph.
func findIndentedCode(src string) int {
	prevBlank := true
	for pos := 0; pos < len(src); {
		line, n := firstLine(src[pos:])
		if prevBlank && !isBlank(line) && indentOf(line) >= 4 {
			return pos
		}
		prevBlank = isBlank(line)
		pos += n
	}
	return -1
}

func codeIndent() *rule.Rule {
	return &rule.Rule{
		Name:     CodeIndent,
		Level:    tree.Block,
		Priority: option.SomeInt(850),
		Start:    rule.Func(findIndentedCode),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			var lines []string
			pos, end := 0, 0
			for pos < len(src) {
				line, n := firstLine(src[pos:])
				if !isBlank(line) && indentOf(line) < 4 {
					break
				}
				pos += n
				lines = append(lines, stripIndent(line, 4))
				if !isBlank(line) {
					end = pos
				}
			}
			if end == 0 {
				return nil, nil
			}
			for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
				lines = lines[:len(lines)-1]
			}
			code := strings.Join(lines, "\n") + "\n"
			return &rule.Result{Raw: src[:end], Data: CodeData{Code: code}}, nil
		},
		Render: renderCode,
	}
}

// --- Math block ------------------------------------------------------------

func mathBlock() *rule.Rule {
	return &rule.Rule{
		Name:     MathBlock,
		Level:    tree.Block,
		Priority: option.SomeInt(800),
		Start:    rule.PatternString(`(?m)^ {0,3}\$\$`),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			first, n := firstLine(src)
			open := strings.TrimSpace(first)[2:]
			if strings.HasSuffix(open, "$$") && len(strings.TrimSpace(open)) > 2 {
				tex := strings.TrimSpace(strings.TrimSuffix(open, "$$"))
				return &rule.Result{Raw: src[:n], Data: tex}, nil
			}
			if strings.TrimSpace(open) != "" {
				return nil, nil
			}
			var tex []string
			for pos := n; pos < len(src); {
				line, ln := firstLine(src[pos:])
				pos += ln
				if strings.TrimSpace(line) == "$$" {
					return &rule.Result{Raw: src[:pos], Data: strings.Join(tex, "\n")}, nil
				}
				tex = append(tex, line)
			}
			return nil, nil // unclosed
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			tex := markup.Escape(r.Node.Data.(string))
			return markup.Element("div", tex, classAttr("math", "math-display")) + "\n", nil
		},
	}
}

// --- Thematic break --------------------------------------------------------

var thematicBreakLine = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)

func thematicBreak() *rule.Rule {
	return &rule.Rule{
		Name:     ThematicBreak,
		Level:    tree.Block,
		Priority: option.SomeInt(700),
		Start:    rule.PatternString(`(?m)^ {0,3}[-*_][ \t]*[-*_][ \t]*[-*_]`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			line, n := firstLine(src)
			if !thematicBreakLine.MatchString(line) {
				return nil, nil
			}
			return &rule.Result{Raw: src[:n]}, nil
		},
		Render: func(*rule.Context, rule.Rendering) (string, error) {
			return "<hr>\n", nil
		},
	}
}

// --- ATX headings ----------------------------------------------------------

var atxHeading = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)

// HeadingData is the data of heading nodes.
type HeadingData struct {
	Depth int
	ID    string
	Title string // plain text
}

func heading() *rule.Rule {
	return &rule.Rule{
		Name:     Heading,
		Level:    tree.Block,
		Priority: option.SomeInt(650),
		Start:    rule.PatternString(`(?m)^ {0,3}#{1,6}(?:[ \t]|$)`),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			line, n := firstLine(src)
			m := atxHeading.FindStringSubmatch(line)
			if m == nil {
				return nil, nil
			}
			content := strings.TrimSpace(m[2])
			data := HeadingData{Depth: len(m[1]), Title: plainText(content)}
			data.ID = rc.Anchors().Slug(data.Title)
			rc.TOC().Add(data.Depth, data.Title, data.ID)
			req := tree.Single(tree.MustContent(content, tree.AtLevel(tree.Inline)))
			return &rule.Result{Raw: src[:n], Data: data, Children: &req}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			data := r.Node.Data.(HeadingData)
			tag := fmt.Sprintf("h%d", data.Depth)
			return markup.Element(tag, r.Child(), markup.Attr("id", data.ID)) + "\n", nil
		},
	}
}

// --- Blockquote ------------------------------------------------------------

var quoteMarker = regexp.MustCompile(`^ {0,3}> ?`)

// blockStart matches lines which start a block and end a lazy continuation.
var blockStart = regexp.MustCompile("^ {0,3}(?:[>#]|```|~~~|[-+*][ \t]|\\d{1,9}[.)][ \t]|\\$\\$)")

func blockquote() *rule.Rule {
	return &rule.Rule{
		Name:     Blockquote,
		Level:    tree.Block,
		Priority: option.SomeInt(600),
		Start:    rule.PatternString(`(?m)^ {0,3}>`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			var inner strings.Builder
			pos := 0
			lazy := false
			for pos < len(src) {
				line, n := firstLine(src[pos:])
				if loc := quoteMarker.FindStringIndex(line); loc != nil {
					rest := line[loc[1]:]
					inner.WriteString(rest)
					inner.WriteByte('\n')
					lazy = !isBlank(rest)
				} else if lazy && !isBlank(line) && !blockStart.MatchString(line) &&
					!thematicBreakLine.MatchString(line) {
					inner.WriteString(line)
					inner.WriteByte('\n')
				} else {
					break
				}
				pos += n
			}
			if pos == 0 {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(inner.String(), tree.WithParagraphs()))
			return &rule.Result{Raw: src[:pos], Children: &req}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			return "<blockquote>\n" + r.Child() + "</blockquote>\n", nil
		},
	}
}

// --- Blank lines and paragraphs --------------------------------------------

func blankLine() *rule.Rule {
	return &rule.Rule{
		Name:     BlankLine,
		Level:    tree.Block,
		Priority: option.SomeInt(100),
		Start:    rule.PatternString(`(?m)^(?:[ \t]*\n|[ \t]+\z)`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			pos := 0
			for pos < len(src) {
				line, n := firstLine(src[pos:])
				if !isBlank(line) {
					break
				}
				pos += n
			}
			if pos == 0 {
				return nil, nil
			}
			return &rule.Result{Raw: src[:pos]}, nil
		},
		Render: func(*rule.Context, rule.Rendering) (string, error) {
			return "", nil
		},
	}
}

// paragraph renders the synthetic paragraphs created by normalization.
func paragraph() *rule.Rule {
	return &rule.Rule{
		Name:  Paragraph,
		Level: tree.Block,
		Start: rule.Never(),
		Parse: noParse,
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			return "<p>" + strings.TrimRight(r.Child(), " \t") + "</p>\n", nil
		},
	}
}

// classAttr creates a class attribute, or an attribute skipped by
// markup.Open if there are no classes.
func classAttr(classes ...string) (a html.Attribute) {
	if len(classes) == 0 {
		return a
	}
	return markup.Attr("class", strings.Join(classes, " "))
}
