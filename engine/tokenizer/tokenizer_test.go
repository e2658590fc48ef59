package tokenizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/pass"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(_ *rule.Context, r rule.Rendering) (string, error) { return r.Node.Raw, nil }

func noParse(*rule.Context, string) (*rule.Result, error) { return nil, nil }

// A minimal grammar: heading, emphasis, breaks, paragraph and text.
func minimalRules() []*rule.Rule {
	return []*rule.Rule{
		{
			Name:  "heading",
			Level: tree.Block,
			Start: rule.PatternString(`(?m)^# `),
			Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
				line := src
				if nl := strings.IndexByte(src, '\n'); nl >= 0 {
					line = src[:nl]
				}
				req := tree.Single(tree.MustContent(line[2:], tree.WithMaxLevel("inline")))
				return &rule.Result{Raw: line, Children: &req}, nil
			},
			Render: render,
		},
		{
			Name:  "emphasis",
			Level: tree.Inline,
			Start: rule.Literal("*"),
			Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
				end := strings.IndexByte(src[1:], '*')
				if end < 1 {
					return nil, nil
				}
				req := tree.Single(tree.MustContent(src[1 : end+1]))
				return &rule.Result{Raw: src[:end+2], Children: &req}, nil
			},
			Render: render,
		},
		{
			Name:  tree.LineBreakName,
			Level: tree.Atomic,
			Start: rule.Literal("\n"),
			Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
				return &rule.Result{Raw: "\n"}, nil
			},
			Render: render,
		},
		{
			Name:     tree.HardBreakName,
			Level:    tree.Atomic,
			Priority: option.SomeInt(10),
			Start:    rule.Literal("  \n"),
			Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
				return &rule.Result{Raw: "  \n"}, nil
			},
			Render: render,
		},
		{Name: tree.ParagraphName, Level: tree.Block, Start: rule.Never(), Parse: noParse, Render: render},
		{Name: tree.TextName, Level: tree.Atomic, Start: rule.Never(), Parse: noParse, Render: render},
	}
}

func newTokenizer(t *testing.T, src string, hooks Hooks, extra ...*rule.Rule) *Tokenizer {
	reg := rule.MustRegistry(minimalRules()...)
	_, err := reg.Register(extra...)
	require.NoError(t, err)
	b, err := rule.NewBinder(context.Background(), reg.Snapshot(), pass.NewState(src))
	require.NoError(t, err)
	return New(b, hooks)
}

func tokenize(t *testing.T, src string, opts tree.Options, extra ...*rule.Rule) []*tree.Node {
	nodes, err := newTokenizer(t, src, Hooks{}, extra...).Tokenize(src, opts)
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(nodes))
	return nodes
}

func TestHeadingAndParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	nodes := tokenize(t, "# Title\n\nBody *em* text", tree.DefaultOptions())
	require.Len(t, nodes, 2)
	assert.Equal(t, tree.Block, nodes[0].Type)
	assert.Equal(t, "heading", nodes[0].Name)
	assert.Equal(t, "# Title", nodes[0].Raw)
	hb, _ := nodes[0].Children.Value()
	assert.Equal(t, tree.Inline, hb.Options.MaxLevel)
	require.Len(t, hb.Nodes, 1)
	assert.Equal(t, "Title", hb.Nodes[0].Raw)
	//
	para := nodes[1]
	assert.True(t, para.IsParagraph())
	kids := para.ChildNodes()
	require.Len(t, kids, 3)
	assert.Equal(t, "Body ", kids[0].Raw)
	assert.Equal(t, tree.TextName, kids[0].Name)
	assert.Equal(t, 9, kids[0].Pos)
	assert.Equal(t, tree.Inline, kids[1].Type)
	assert.Equal(t, "emphasis", kids[1].Name)
	assert.Equal(t, 14, kids[1].Pos)
	em := kids[1].ChildNodes()
	require.Len(t, em, 1)
	assert.Equal(t, "em", em[0].Raw)
	assert.Equal(t, " text", kids[2].Raw)
}

func TestPlainText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	nodes := tokenize(t, "plain text", tree.DefaultOptions())
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsParagraph())
	kids := nodes[0].ChildNodes()
	require.Len(t, kids, 1)
	assert.Equal(t, tree.Atomic, kids[0].Type)
	assert.Equal(t, "plain text", kids[0].Raw)
	//
	opts := tree.DefaultOptions()
	opts.SkipParagraphWrapping = true
	nodes = tokenize(t, "plain text", opts)
	require.Len(t, nodes, 1)
	assert.Equal(t, tree.TextName, nodes[0].Name)
	assert.Equal(t, "plain text", nodes[0].Raw)
}

// claim creates an inline rule which starts at "@" and records its attempts.
func claim(name string, attempts *[]string, prio option.IntT) *rule.Rule {
	return &rule.Rule{
		Name:     name,
		Level:    tree.Inline,
		Priority: prio,
		Start:    rule.Literal("@"),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			*attempts = append(*attempts, name)
			return &rule.Result{Raw: "@", Data: name}, nil
		},
		Render: render,
	}
}

func TestPriorityWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	var attempts []string
	opts := tree.Options{MaxLevel: tree.Inline}
	nodes := tokenize(t, "x@y", opts,
		claim("zulu", &attempts, option.Int()),
		claim("alpha", &attempts, option.SomeInt(5)))
	assert.Equal(t, []string{"alpha"}, attempts)
	require.Len(t, nodes, 3)
	assert.Equal(t, "alpha", nodes[1].Data)
}

func TestTieBreakByDescendingName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	var attempts []string
	nodes := tokenize(t, "@", tree.Options{MaxLevel: tree.Inline},
		claim("alpha", &attempts, option.Int()),
		claim("beta", &attempts, option.Int()))
	assert.Equal(t, []string{"beta"}, attempts)
	require.Len(t, nodes, 1)
	assert.Equal(t, "beta", nodes[0].Name)
}

func TestFirstNonEmptyResultWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	var attempts []string
	decline := &rule.Rule{
		Name:     "decline",
		Level:    tree.Inline,
		Priority: option.SomeInt(1),
		Start:    rule.Literal("@"),
		Parse: func(*rule.Context, string) (*rule.Result, error) {
			attempts = append(attempts, "decline")
			return &rule.Result{Raw: ""}, nil
		},
		Render: render,
	}
	nodes := tokenize(t, "a@", tree.Options{MaxLevel: tree.Inline},
		decline, claim("take", &attempts, option.Int()))
	assert.Equal(t, []string{"decline", "take"}, attempts)
	require.Len(t, nodes, 2)
	assert.Equal(t, "take", nodes[1].Name)
	assert.Equal(t, 1, nodes[1].Pos)
}

func TestChildLevelIsClamped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	bracket := &rule.Rule{
		Name:  "bracket",
		Level: tree.Inline,
		Start: rule.Literal("["),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			end := strings.IndexByte(src, ']')
			if end < 0 {
				return nil, nil
			}
			c, err := tree.NewContent(src[1:end], tree.WithMaxLevel("block"), tree.WithParagraphs())
			if err != nil {
				return nil, err
			}
			req := tree.Single(c)
			return &rule.Result{Raw: src[:end+1], Children: &req}, nil
		},
		Render: render,
	}
	nodes := tokenize(t, "see [# not a heading]", tree.DefaultOptions(), bracket)
	require.Len(t, nodes, 1)
	var br *tree.Node
	tree.Walk(nodes, func(n *tree.Node) bool {
		if n.Name == "bracket" {
			br = n
		}
		return true
	})
	require.NotNil(t, br)
	b, _ := br.Children.Value()
	assert.Equal(t, tree.Inline, b.Options.MaxLevel)
	assert.True(t, b.Options.SkipParagraphWrapping, "non-block children never get paragraphs")
	tree.Walk(b.Nodes, func(n *tree.Node) bool {
		assert.NotEqual(t, tree.Block, n.Type, "clamped child produced block node %v", n)
		return true
	})
}

func TestListChildrenKeepShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	cells := &rule.Rule{
		Name:  "cells",
		Level: tree.Block,
		Start: rule.PatternString(`(?m)^\|`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			line := strings.SplitN(src, "\n", 2)[0]
			parts := strings.Split(strings.Trim(line, "|"), "|")
			var cs []tree.Content
			for _, p := range parts {
				cs = append(cs, tree.MustContent(p, tree.AtLevel(tree.Inline)))
			}
			req := tree.Values(cs...)
			return &rule.Result{Raw: line, Children: &req}, nil
		},
		Render: render,
	}
	nodes := tokenize(t, "|a|*b*|c|", tree.DefaultOptions(), cells)
	require.Len(t, nodes, 1)
	ch := nodes[0].Children
	require.True(t, ch.IsList())
	assert.Equal(t, 3, ch.Len())
	mid, _ := ch.At(1).Value()
	require.Len(t, mid.Nodes, 1)
	assert.Equal(t, "emphasis", mid.Nodes[0].Name)
}

func TestLeftoverRawCoversSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	inputs := []string{
		"",
		"plain",
		"# Title\n\nBody *em* text",
		"*a* *b\n\n# H\nx  \ny\n\n\n",
		"ünïcödé *ém* ✓\n# Ü",
		"**\n*\n",
	}
	for _, src := range inputs {
		var top []*tree.Node
		hooks := Hooks{PreNormalize: []NodeHook{func(nodes []*tree.Node, _ tree.Options) []*tree.Node {
			top = nodes // the outermost call runs last
			return nodes
		}}}
		_, err := newTokenizer(t, src, hooks).Tokenize(src, tree.DefaultOptions())
		require.NoError(t, err)
		var b strings.Builder
		for _, n := range top {
			b.WriteString(n.Raw)
		}
		assert.Equal(t, src, b.String(), "raw spans must cover %q", src)
		pos := 0
		for _, n := range top {
			assert.Equal(t, pos, n.Pos, "node %v", n)
			pos += len(n.Raw)
		}
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	src := "# One\n*a* b  \nc\n\n# Two\nd *e* f\n"
	first := tokenize(t, src, tree.DefaultOptions())
	for i := 0; i < 5; i++ {
		assert.True(t, tree.Equal(first, tokenize(t, src, tree.DefaultOptions())))
	}
}

func TestHooksOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	var calls []string
	nodeHook := func(name string) NodeHook {
		return func(nodes []*tree.Node, _ tree.Options) []*tree.Node {
			calls = append(calls, name)
			return nodes
		}
	}
	hooks := Hooks{
		PreTokenize: []SourceHook{
			func(src string) string { calls = append(calls, "pre-tokenize"); return src },
			func(src string) string { return strings.ReplaceAll(src, "_", "*") },
		},
		PreNormalize:  []NodeHook{nodeHook("pre-normalize")},
		PostNormalize: []NodeHook{nodeHook("post-normalize")},
		PostTokenize:  []NodeHook{nodeHook("post-tokenize")},
	}
	nodes, err := newTokenizer(t, "_x_", hooks).Tokenize("_x_", tree.Options{MaxLevel: tree.Inline})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "emphasis", nodes[0].Name, "source hook result must be tokenized")
	nested := []string{"pre-tokenize", "pre-normalize", "post-normalize", "post-tokenize"}
	expected := append(append([]string{"pre-tokenize"}, nested...), nested[1:]...)
	assert.Equal(t, expected, calls,
		"hooks run once per call, the nested call for the emphasis content in between")
}

func TestBreakNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	kinds := func(nodes []*tree.Node) string {
		var s []string
		for _, n := range nodes {
			switch {
			case n.IsHardBreak():
				s = append(s, "H")
			case n.IsBreak():
				s = append(s, "B")
			case n.Raw == "\n":
				s = append(s, "J")
			default:
				s = append(s, n.Raw)
			}
		}
		return strings.Join(s, " ")
	}
	opts := tree.Options{MaxLevel: tree.Inline, SkipParagraphWrapping: true}
	assert.Equal(t, "a J b", kinds(tokenize(t, "a\nb", opts)))
	assert.Equal(t, "a B b", kinds(tokenize(t, "a\n\nb", opts)))
	assert.Equal(t, "a B b", kinds(tokenize(t, "a\n\n\nb", opts)))
	assert.Equal(t, "a H b", kinds(tokenize(t, "a  \nb", opts)))
	assert.Equal(t, "a", kinds(tokenize(t, "\n\na\n", opts)))
	opts.LineBreak = tree.Soft
	assert.Equal(t, "a B b", kinds(tokenize(t, "a\nb", opts)))
	assert.Equal(t, "a B b", kinds(tokenize(t, "a\n\n\nb", opts)))
	assert.Equal(t, "a H b", kinds(tokenize(t, "a  \nb", opts)))
}

func TestNoBreakNextToBlock(t *testing.T) {
	heading := &tree.Node{Type: tree.Block, Name: "heading", Raw: "# H"}
	lb := func() *tree.Node { return &tree.Node{Type: tree.Atomic, Name: tree.LineBreakName, Raw: "\n"} }
	hb := &tree.Node{Type: tree.Atomic, Name: tree.HardBreakName, Raw: "  \n"}
	a := tree.NewText("a", 0)
	out := NormalizeBreaks([]*tree.Node{a, hb, heading, lb(), lb(), a}, tree.Soft)
	require.Len(t, out, 3)
	assert.Equal(t, []*tree.Node{a, heading, a}, out)
}

func TestParagraphWrapIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	nodes := tokenize(t, "# A\nx *y*\n# B\n\nz\n", tree.DefaultOptions())
	again := WrapParagraphs(nodes, tree.DefaultOptions())
	assert.True(t, tree.Equal(nodes, again))
	for _, n := range nodes {
		assert.Equal(t, tree.Block, n.Type)
	}
}

func TestRuleFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	boom := errors.New("boom")
	failing := &rule.Rule{
		Name: "failing", Level: tree.Inline, Start: rule.Literal("!"),
		Parse:  func(*rule.Context, string) (*rule.Result, error) { return nil, boom },
		Render: render,
	}
	_, err := newTokenizer(t, "", Hooks{}, failing).Tokenize("a!", tree.DefaultOptions())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, core.ERULE, core.Code(err))
	//
	liar := &rule.Rule{
		Name: "liar", Level: tree.Inline, Start: rule.Literal("!"),
		Parse:  func(*rule.Context, string) (*rule.Result, error) { return &rule.Result{Raw: "?"}, nil },
		Render: render,
	}
	_, err = newTokenizer(t, "", Hooks{}, liar).Tokenize("a!", tree.DefaultOptions())
	assert.Equal(t, core.ERULE, core.Code(err))
	//
	req := tree.Single(tree.MustContent("x"))
	parent := &rule.Rule{
		Name: "atom", Level: tree.Atomic, Start: rule.Literal("!"),
		Parse:  func(*rule.Context, string) (*rule.Result, error) { return &rule.Result{Raw: "!", Children: &req}, nil },
		Render: render,
	}
	_, err = newTokenizer(t, "", Hooks{}, parent).Tokenize("a!", tree.DefaultOptions())
	assert.Equal(t, core.ERULE, core.Code(err))
	//
	_, err = newTokenizer(t, "", Hooks{}).Tokenize("a", tree.Options{MaxLevel: tree.Level(3)})
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestStartOffsetOutsideGap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	overshoot := &rule.Rule{
		Name: "overshoot", Level: tree.Atomic,
		Start:  rule.Func(func(src string) int { return len(src) + 3 }),
		Parse:  func(*rule.Context, string) (*rule.Result, error) { return &rule.Result{Raw: "a"}, nil },
		Render: render,
	}
	var nodes []*tree.Node
	var err error
	assert.NotPanics(t, func() {
		nodes, err = newTokenizer(t, "", Hooks{}, overshoot).Tokenize("abc", tree.DefaultOptions())
	})
	assert.Nil(t, nodes)
	require.Error(t, err)
	assert.Equal(t, core.ERULE, core.Code(err))
	assert.Contains(t, err.Error(), "outside gap")
}

// fenced creates a block rule which hands everything after a ":::" line to
// its child content, with the given overrides.
func fenced(overrides ...tree.OverrideOption) *rule.Rule {
	return &rule.Rule{
		Name:  "fenced",
		Level: tree.Block,
		Start: rule.PatternString(`(?m)^:::\n`),
		Parse: func(_ *rule.Context, src string) (*rule.Result, error) {
			c, err := tree.NewContent(src[4:], overrides...)
			if err != nil {
				return nil, err
			}
			req := tree.Single(c)
			return &rule.Result{Raw: src, Children: &req}, nil
		},
		Render: render,
	}
}

func TestChildOverridesApply(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	src := ":::\na\nb"
	nodes := tokenize(t, src, tree.DefaultOptions(), fenced(tree.WithLineBreak("soft")))
	require.Len(t, nodes, 1)
	assert.Equal(t, "fenced", nodes[0].Name)
	b, ok := nodes[0].Children.Value()
	require.True(t, ok)
	assert.Equal(t, tree.Soft, b.Options.LineBreak)
	assert.Equal(t, tree.Block, b.Options.MaxLevel)
	require.Len(t, b.Nodes, 1)
	require.True(t, b.Nodes[0].IsParagraph())
	kids := b.Nodes[0].ChildNodes()
	require.Len(t, kids, 3)
	assert.Equal(t, "a", kids[0].Raw)
	assert.Equal(t, tree.LineBreakName, kids[1].Name, "soft mode keeps the break")
	assert.Equal(t, "b", kids[2].Raw)
	//
	nodes = tokenize(t, src, tree.DefaultOptions(), fenced())
	b, _ = nodes[0].Children.Value()
	assert.Equal(t, tree.CommonMark, b.Options.LineBreak, "inherited from the parent")
	kids = b.Nodes[0].ChildNodes()
	require.Len(t, kids, 3)
	assert.Equal(t, tree.TextName, kids[1].Name)
	assert.Equal(t, "\n", kids[1].Raw)
	//
	nodes = tokenize(t, src, tree.DefaultOptions(), fenced(tree.WithoutParagraphs()))
	b, _ = nodes[0].Children.Value()
	assert.True(t, b.Options.SkipParagraphWrapping)
	require.NotEmpty(t, b.Nodes)
	tree.Walk(b.Nodes, func(n *tree.Node) bool {
		assert.False(t, n.IsParagraph(), "unexpected paragraph %v", n)
		return true
	})
	assert.Equal(t, "a", b.Nodes[0].Raw)
}
