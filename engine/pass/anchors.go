package pass

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/derekparker/trie"
	"github.com/zeebo/blake3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Anchors issues unique anchor ids (slugs) for a document.
type Anchors struct {
	issued *trie.Trie
	lower  cases.Caser
}

// NewAnchors creates an empty anchor registry.
func NewAnchors() *Anchors {
	return &Anchors{
		issued: trie.New(),
		lower:  cases.Lower(language.Und),
	}
}

// Slug derives an id from text and reserves it. If the id is taken, a
// numeric suffix is appended ("title", "title-1", "title-2", …).
func (a *Anchors) Slug(text string) string {
	base := a.slugify(text)
	id := base
	for i := 1; a.Has(id); i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	a.Reserve(id)
	tracer().Debugf("anchor %q for %q", id, text)
	return id
}

// Reserve marks id as taken. It reports false if id was already taken.
func (a *Anchors) Reserve(id string) bool {
	if a.Has(id) {
		return false
	}
	a.issued.Add(id, struct{}{})
	return true
}

// Has is true if id has been issued or reserved.
func (a *Anchors) Has(id string) bool {
	_, ok := a.issued.Find(id)
	return ok
}

// WithPrefix lists all issued ids starting with prefix, sorted.
func (a *Anchors) WithPrefix(prefix string) []string {
	ids := a.issued.PrefixSearch(prefix)
	sort.Strings(ids)
	return ids
}

func (a *Anchors) slugify(text string) string {
	strip := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(strip, text)
	if err != nil {
		folded = text
	}
	folded = a.lower.String(folded)
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			dash = true
		}
	}
	if b.Len() == 0 {
		sum := blake3.Sum256([]byte(text))
		return "h-" + hex.EncodeToString(sum[:])[:8]
	}
	return b.String()
}
