package builtin

import (
	"strings"

	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
)

// scanInline returns the first offset in src which accept accepts.
// Backslash escapes, code spans and autolinks are skipped, as no inline
// construct may start inside them.
func scanInline(src string, accept func(i int) bool) int {
	for i := 0; i < len(src); {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '`':
			n := backtickRun(src, i)
			if end := closingBackticks(src, i+n, n); end >= 0 {
				i = end + n
			} else {
				i += n
			}
			continue
		case '<':
			if m := autolinkAt(src[i:]); m != nil {
				i += len(m[0])
				continue
			}
		}
		if accept(i) {
			return i
		}
		i++
	}
	return -1
}

// delimited creates a rule for text enclosed in delimiters, like **strong**.
// Openers must be followed and closers preceded by non-space. Underscore
// delimiters must not be part of a word.
func delimited(name, tag string, delims ...string) *rule.Rule {
	isDelim := func(src string, i int) string {
		for _, d := range delims {
			if !strings.HasPrefix(src[i:], d) {
				continue
			}
			c := d[0]
			if len(d) == 1 && (i+1 < len(src) && src[i+1] == c || i > 0 && src[i-1] == c) {
				continue // part of a longer run
			}
			return d
		}
		return ""
	}
	opener := func(src string, i int) bool {
		d := isDelim(src, i)
		if d == "" || isSpaceAt(src, i+len(d)) {
			return false
		}
		return d[0] != '_' || !isAlnumBefore(src, i)
	}
	return &rule.Rule{
		Name:  name,
		Level: tree.Inline,
		Start: rule.Func(func(src string) int {
			return scanInline(src, func(i int) bool { return opener(src, i) })
		}),
		Parse: func(rc *rule.Context, src string) (*rule.Result, error) {
			if !opener(src, 0) {
				return nil, nil
			}
			d := isDelim(src, 0)
			w := len(d)
			if res := tripleRun(src, d, tag); res != nil {
				return res, nil
			}
			end := findClosing(src, w, d, func(i int) bool {
				if i == w || isSpaceAt(src, i-1) || isDelim(src, i) != d {
					return false
				}
				return d[0] != '_' || !isAlnumAt(src, i+w)
			})
			if end < 0 {
				return nil, nil
			}
			req := tree.Single(tree.MustContent(src[w:end], tree.AtLevel(tree.Inline)))
			return &rule.Result{Raw: src[:end+w], Data: []string{tag}, Children: &req}, nil
		},
		Render: func(_ *rule.Context, r rule.Rendering) (string, error) {
			tags := r.Node.Data.([]string)
			var b strings.Builder
			for _, tag := range tags {
				b.WriteString("<" + tag + ">")
			}
			b.WriteString(r.Child())
			for i := len(tags) - 1; i >= 0; i-- {
				b.WriteString("</" + tags[i] + ">")
			}
			return b.String(), nil
		},
	}
}

// tripleRun matches a span opened and closed by three emphasis characters,
// like ***x***, for a two-character delimiter d. The span is emphasis
// wrapping tag.
func tripleRun(src, d, tag string) *rule.Result {
	if len(d) != 2 || d[0] != '*' && d[0] != '_' {
		return nil
	}
	run := d + d[:1]
	w := len(run)
	if !strings.HasPrefix(src, run) || isSpaceAt(src, w) || len(src) > w && src[w] == d[0] {
		return nil
	}
	end := findClosing(src, w+1, run, func(i int) bool {
		if isSpaceAt(src, i-1) || i+w < len(src) && src[i+w] == d[0] {
			return false
		}
		return d[0] != '_' || !isAlnumAt(src, i+w)
	})
	if end < 0 {
		return nil
	}
	req := tree.Single(tree.MustContent(src[w:end], tree.AtLevel(tree.Inline)))
	return &rule.Result{Raw: src[:end+w], Data: []string{"em", tag}, Children: &req}
}

func strong() *rule.Rule {
	return delimited(Strong, "strong", "**", "__")
}

func emphasis() *rule.Rule {
	return delimited(Emphasis, "em", "*", "_")
}

func strikethrough() *rule.Rule {
	return delimited(Strikethrough, "del", "~~")
}
