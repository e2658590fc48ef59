package builtin

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// firstLine returns the first line of src without its newline, and the
// length of the line including the newline.
func firstLine(src string) (string, int) {
	if nl := strings.IndexByte(src, '\n'); nl >= 0 {
		return src[:nl], nl + 1
	}
	return src, len(src)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// indentOf returns the indentation width of s, with tab stops of 4.
func indentOf(s string) int {
	w := 0
	for _, c := range s {
		switch c {
		case ' ':
			w++
		case '\t':
			w += 4 - w%4
		default:
			return w
		}
	}
	return w
}

// stripIndent removes up to n columns of leading whitespace.
func stripIndent(s string, n int) string {
	w := 0
	for i, c := range s {
		if w >= n {
			return s[i:]
		}
		switch c {
		case ' ':
			w++
		case '\t':
			tw := 4 - w%4
			if w+tw > n {
				return strings.Repeat(" ", w+tw-n) + s[i+1:]
			}
			w += tw
		default:
			return s[i:]
		}
	}
	return ""
}

// backtickRun returns the length of the run of backticks at src[i].
func backtickRun(src string, i int) int {
	n := 0
	for i+n < len(src) && src[i+n] == '`' {
		n++
	}
	return n
}

// closingBackticks finds a run of exactly n backticks at or after from.
func closingBackticks(src string, from, n int) int {
	for i := from; i < len(src); {
		if src[i] != '`' {
			i++
			continue
		}
		m := backtickRun(src, i)
		if m == n {
			return i
		}
		i += m
	}
	return -1
}

// findClosing returns the offset of the first occurrence of delim at or
// after from which ok accepts. Backslash escapes and code spans are skipped.
func findClosing(src string, from int, delim string, ok func(i int) bool) int {
	for i := from; i < len(src); {
		switch {
		case src[i] == '\\' && i+1 < len(src):
			i += 2
			continue
		case src[i] == '`' && delim[0] != '`':
			n := backtickRun(src, i)
			if end := closingBackticks(src, i+n, n); end >= 0 {
				i = end + n
			} else {
				i += n
			}
			continue
		case strings.HasPrefix(src[i:], delim) && (ok == nil || ok(i)):
			return i
		}
		i++
	}
	return -1
}

// matchBracket returns the offset of the ']' matching the '[' at src[open].
func matchBracket(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			n := backtickRun(src, i)
			if end := closingBackticks(src, i+n, n); end >= 0 {
				i = end + n - 1
			} else {
				i += n - 1
			}
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// unescape removes backslashes before ASCII punctuation.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return c >= '!' && c <= '/' || c >= ':' && c <= '@' || c >= '[' && c <= '`' || c >= '{' && c <= '~'
}

func isSpaceAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}

func isAlnumBefore(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isAlnumAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// plainText strips inline markup from heading titles, for anchors and
// the table of contents.
func plainText(s string) string {
	s = linkText.ReplaceAllString(s, "$1")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '`', '~', '\\':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
