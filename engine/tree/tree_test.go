package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/mdkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelNames(t *testing.T) {
	for _, l := range []Level{Atomic, Inline, Block} {
		parsed, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	_, err := ParseLevel("section")
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, []Level{Block, Inline, Atomic}, LevelsFrom(Block))
	assert.Equal(t, []Level{Inline, Atomic}, LevelsFrom(Inline))
	assert.Equal(t, []Level{Atomic}, LevelsFrom(Atomic))
	assert.Equal(t, Inline, Min(Block, Inline))
}

func TestLineBreakNames(t *testing.T) {
	lb, err := ParseLineBreak("soft")
	require.NoError(t, err)
	assert.Equal(t, Soft, lb)
	assert.Equal(t, "common-mark", CommonMark.String())
	_, err = ParseLineBreak("hard")
	assert.Error(t, err)
}

func TestContentValidation(t *testing.T) {
	_, err := NewContent("x", WithMaxLevel("paragraph"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = NewContent("x", WithLineBreak("crlf"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = NewContent("x", AtLevel(Level(7)))
	assert.Error(t, err)
	assert.Panics(t, func() { MustContent("x", WithMaxLevel("nope")) })
	//
	c, err := NewContent("x", WithMaxLevel("inline"), WithoutParagraphs())
	require.NoError(t, err)
	opts := c.Override.Apply(DefaultOptions())
	assert.Equal(t, Inline, opts.MaxLevel)
	assert.True(t, opts.SkipParagraphWrapping)
	assert.Equal(t, CommonMark, opts.LineBreak)
	assert.False(t, c.Override.HasLineBreak())
}

func TestMapShapeKeepsStructure(t *testing.T) {
	req := List(Single("a"), List(Single("b"), Single("c")), Single("d"))
	up, err := MapShape(req, func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	require.NoError(t, err)
	require.True(t, up.IsList())
	assert.Equal(t, 3, up.Len())
	assert.True(t, up.At(1).IsList())
	v, ok := up.At(1).At(0).Value()
	assert.True(t, ok)
	assert.Equal(t, "B", v)
	assert.Equal(t, "ABCD", Join(up))
	//
	single, err := MapShape(Single(1), func(i int) (int, error) { return i + 1, nil })
	require.NoError(t, err)
	assert.False(t, single.IsList())
	assert.Equal(t, []int{2}, single.Flatten())
}

func TestMapShapeError(t *testing.T) {
	boom := errors.New("boom")
	_, err := MapShape(Values(1, 2, 3), func(i int) (int, error) {
		if i == 2 {
			return 0, boom
		}
		return i, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestParagraphAndLeaves(t *testing.T) {
	a := NewText("Body ", 9)
	em := &Node{Type: Inline, Name: "emphasis", Raw: "*em*", Pos: 14}
	ch := Single(Branch{Nodes: []*Node{NewText("em", 1)}})
	em.Children = &ch
	b := NewText(" text", 18)
	p := NewParagraph([]*Node{a, em, b}, DefaultOptions())
	assert.True(t, p.IsParagraph())
	assert.Equal(t, "Body *em* text", p.Raw)
	assert.Equal(t, 9, p.Pos)
	leaves := Leaves([]*Node{p})
	assert.Len(t, leaves, 3)
	assert.Equal(t, "em", leaves[1].Raw)
	//
	count := 0
	Walk([]*Node{p}, func(*Node) bool { count++; return true })
	assert.Equal(t, 5, count)
	assert.True(t, Equal([]*Node{p}, []*Node{NewParagraph([]*Node{a, em, b}, DefaultOptions())}))
	assert.False(t, Equal([]*Node{p}, []*Node{a}))
	assert.Contains(t, Dump([]*Node{p}), "  inline/emphasis")
}
