package builtin

import (
	"regexp"
	"strings"

	"github.com/npillmayer/mdkit/backend/markup"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
)

func escape() *rule.Rule {
	return &rule.Rule{
		Name:  Escape,
		Level: tree.Atomic,
		Start: rule.PatternString("\\\\[!-/:-@\\[-`{-~]"),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			if len(src) < 2 || src[0] != '\\' || !isASCIIPunct(src[1]) {
				return nil, nil
			}
			return &rule.Result{Raw: src[:2], Data: src[1:2]}, nil
		},
		Render: func(rc *rule.Context, r rule.Rendering) (string, error) {
			s := r.Node.Data.(string)
			rc.Counter().Add(s)
			return markup.Escape(s), nil
		},
	}
}

// codeSpan parses backtick code spans. A backtick run without a closing
// run of the same length is literal text.
func codeSpan() *rule.Rule {
	return &rule.Rule{
		Name:  CodeSpan,
		Level: tree.Atomic,
		Start: rule.Literal("`"),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			n := backtickRun(src, 0)
			end := closingBackticks(src, n, n)
			if end < 0 {
				return &rule.Result{Raw: src[:n]}, nil
			}
			code := strings.ReplaceAll(src[n:end], "\n", " ")
			if len(code) > 2 && code[0] == ' ' && code[len(code)-1] == ' ' && strings.TrimSpace(code) != "" {
				code = code[1 : len(code)-1]
			}
			return &rule.Result{Raw: src[:end+n], Data: code}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			code, ok := r.Node.Data.(string)
			if !ok {
				return markup.Escape(r.Node.Raw), nil
			}
			return markup.Element("code", markup.Escape(code)), nil
		},
	}
}

func mathInline() *rule.Rule {
	return &rule.Rule{
		Name:  MathInline,
		Level: tree.Atomic,
		Start: rule.PatternString(`\$[^$\s]`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			end := findClosing(src, 1, "$", func(i int) bool {
				return !isSpaceAt(src, i-1) && !(i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9')
			})
			if end < 0 {
				return nil, nil
			}
			return &rule.Result{Raw: src[:end+1], Data: src[1:end]}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			tex := markup.Escape(r.Node.Data.(string))
			return markup.Element("span", tex, classAttr("math", "math-inline")), nil
		},
	}
}

var (
	autolinkURI   = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9+.-]{1,31}:[^<>\s]*)>`)
	autolinkEmail = regexp.MustCompile("^<([a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*)>")
)

// autolinkAt returns the submatches of an autolink at the start of s, with
// the link target prepared as the last element.
func autolinkAt(s string) []string {
	if m := autolinkURI.FindStringSubmatch(s); m != nil {
		return append(m, m[1])
	}
	if m := autolinkEmail.FindStringSubmatch(s); m != nil {
		return append(m, "mailto:"+m[1])
	}
	return nil
}

func autolink() *rule.Rule {
	return &rule.Rule{
		Name:  Autolink,
		Level: tree.Atomic,
		Start: rule.Literal("<"),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			m := autolinkAt(src)
			if m == nil {
				return nil, nil
			}
			return &rule.Result{Raw: m[0], Data: LinkData{Dest: m[2], Title: m[1]}}, nil
		},
		Render: func(rc *rule.Context, r rule.Rendering) (string, error) {
			ld := r.Node.Data.(LinkData)
			rc.Counter().Add(ld.Title)
			return markup.Element("a", markup.Escape(ld.Title), markup.Attr("href", ld.Dest)), nil
		},
	}
}

func hardBreak() *rule.Rule {
	return &rule.Rule{
		Name:  HardBreak,
		Level: tree.Atomic,
		Start: rule.PatternString(`(?: {2,}|\\)\n`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			nl := strings.IndexByte(src, '\n')
			if nl <= 0 {
				return nil, nil
			}
			if head := src[:nl]; head == `\` || nl >= 2 && strings.Trim(head, " ") == "" {
				return &rule.Result{Raw: src[:nl+1]}, nil
			}
			return nil, nil
		},
		Render: renderBreak,
	}
}

func lineBreak() *rule.Rule {
	return &rule.Rule{
		Name:  LineBreak,
		Level: tree.Atomic,
		Start: rule.Literal("\n"),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			return &rule.Result{Raw: src[:1]}, nil
		},
		Render: renderBreak,
	}
}

func renderBreak(*rule.Context, rule.Rendering) (string, error) {
	return "<br>\n", nil
}

// text renders leftover text. It is never matched.
func text() *rule.Rule {
	return &rule.Rule{
		Name:  Text,
		Level: tree.Atomic,
		Start: rule.Never(),
		Parse: noParse,
		Render: func(rc *rule.Context, r rule.Rendering) (string, error) {
			rc.Counter().Add(r.Node.Raw)
			return markup.Escape(r.Node.Raw), nil
		},
	}
}
