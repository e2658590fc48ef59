package rule

import (
	"regexp"
	"strings"
)

// Matcher finds candidate start offsets for a rule. Exactly one of its
// variants is set; create matchers with Literal, Pattern or Func.
type Matcher struct {
	literal string
	pattern *regexp.Regexp
	fn      func(src string) int
}

// Literal matches every occurrence of s.
func Literal(s string) Matcher {
	return Matcher{literal: s}
}

// Pattern matches every match of re. Block rules will usually anchor their
// pattern to line starts with "(?m)^".
func Pattern(re *regexp.Regexp) Matcher {
	return Matcher{pattern: re}
}

// PatternString compiles expr into a pattern matcher. It panics if expr
// does not compile, as is the convention of regexp.MustCompile.
func PatternString(expr string) Matcher {
	return Pattern(regexp.MustCompile(expr))
}

// Func matches at the offset f returns. f returns -1 if there is no match.
func Func(f func(src string) int) Matcher {
	return Matcher{fn: f}
}

// Never is a matcher which never fires, for render-only rules.
func Never() Matcher {
	return Func(func(string) int { return -1 })
}

// variants counts the variants set.
func (m Matcher) variants() int {
	n := 0
	if m.literal != "" {
		n++
	}
	if m.pattern != nil {
		n++
	}
	if m.fn != nil {
		n++
	}
	return n
}

// Find returns the first offset in src where the matcher fires, or -1.
func (m Matcher) Find(src string) int {
	switch {
	case m.literal != "":
		return strings.Index(src, m.literal)
	case m.pattern != nil:
		loc := m.pattern.FindStringIndex(src)
		if loc == nil {
			return -1
		}
		return loc[0]
	case m.fn != nil:
		return m.fn(src)
	}
	return -1
}

// FindFrom returns the first offset at or after from where the matcher
// fires, or -1. The matcher sees src[from:] as its whole input, so a pattern
// anchored with "^" fires at from.
func (m Matcher) FindFrom(src string, from int) int {
	if from > len(src) {
		return -1
	}
	if at := m.Find(src[from:]); at >= 0 {
		return from + at
	}
	return -1
}

func (m Matcher) String() string {
	switch {
	case m.literal != "":
		return "literal(" + m.literal + ")"
	case m.pattern != nil:
		return "pattern(" + m.pattern.String() + ")"
	case m.fn != nil:
		return "func"
	}
	return "<no matcher>"
}
