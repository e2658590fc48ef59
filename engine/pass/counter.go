package pass

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax29"
)

var setupGraphemes sync.Once

// Counter counts words (UAX #29 word segments starting with a letter or
// digit) and user-perceived characters (grapheme clusters) of text.
type Counter struct {
	words *segment.Segmenter
	nw    int
	nc    int
}

// NewCounter creates a counter with zero counts.
func NewCounter() *Counter {
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	words := segment.NewSegmenter(uax29.NewWordBreaker(1))
	words.BreakOnZero(true, false)
	return &Counter{words: words}
}

// Add counts the words and characters of text.
func (c *Counter) Add(text string) {
	if text == "" {
		return
	}
	c.nc += grapheme.StringFromString(text).Len()
	c.words.Init(strings.NewReader(text))
	for c.words.Next() {
		word := c.words.Text()
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			c.nw++
		}
	}
}

// Words returns the number of words counted so far.
func (c *Counter) Words() int { return c.nw }

// Chars returns the number of characters counted so far.
func (c *Counter) Chars() int { return c.nc }
