package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/mdkit/engine/pass"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tokenizer"
	"github.com/npillmayer/mdkit/engine/transform"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, src string, opts tree.Options) (string, *pass.State) {
	t.Helper()
	reg := rule.MustRegistry(Rules()...)
	state := pass.NewState(src)
	binder, err := rule.NewBinder(context.Background(), reg.Snapshot(), state)
	require.NoError(t, err)
	nodes, err := tokenizer.New(binder, tokenizer.Hooks{}).Tokenize(src, opts)
	require.NoError(t, err)
	out, err := transform.Transform(binder, nodes)
	require.NoError(t, err)
	return out, state
}

func TestGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	cases := []struct{ name, src, html string }{
		{"paragraph", "Hello\nworld\n", "<p>Hello\nworld</p>\n"},
		{"paragraphs", "a\n\nb\n", "<p>a</p>\n<p>b</p>\n"},
		{"heading", "# Hello *World*\n", `<h1 id="hello-world">Hello <em>World</em></h1>` + "\n"},
		{"closed heading", "## Title ##\n", `<h2 id="title">Title</h2>` + "\n"},
		{"emphasis", "a **b** and *c* ~~d~~\n", "<p>a <strong>b</strong> and <em>c</em> <del>d</del></p>\n"},
		{"strong emphasis", "***x*** and ___y___\n", "<p><em><strong>x</strong></em> and <em><strong>y</strong></em></p>\n"},
		{"strong inside emphasis", "*a **b** c*\n", "<p><em>a <strong>b</strong> c</em></p>\n"},
		{"intraword underscore", "snake_case_name\n", "<p>snake_case_name</p>\n"},
		{"fence", "```go\nx := 1 < 2\n```\n", `<pre><code class="language-go">x := 1 &lt; 2` + "\n</code></pre>\n"},
		{"indented code", "    code\n", "<pre><code>code\n</code></pre>\n"},
		{"thematic break", "a\n\n***\n", "<p>a</p>\n<hr>\n"},
		{"blockquote", "> quote\n> more\n", "<blockquote>\n<p>quote\nmore</p>\n</blockquote>\n"},
		{"bullets", "- a\n- b\n", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
		{"ordered", "3. a\n4. b\n", "<ol start=\"3\">\n<li>a</li>\n<li>b</li>\n</ol>\n"},
		{"loose list", "- a\n\n- b\n", "<ul>\n<li>\n<p>a</p>\n</li>\n<li>\n<p>b</p>\n</li>\n</ul>\n"},
		{"nested list", "- a\n  - b\n", "<ul>\n<li>a<ul>\n<li>b</li>\n</ul>\n</li>\n</ul>\n"},
		{"tasks", "- [x] done\n- [ ] open\n",
			"<ul>\n" +
				`<li class="task-list-item"><input type="checkbox" disabled checked> done</li>` + "\n" +
				`<li class="task-list-item"><input type="checkbox" disabled> open</li>` + "\n" +
				"</ul>\n"},
		{"link", `See [mdkit](https://x.org "Home").` + "\n",
			`<p>See <a href="https://x.org" title="Home">mdkit</a>.</p>` + "\n"},
		{"reference links", "[Go][go] and [go]\n\n[go]: https://go.dev\n",
			`<p><a href="https://go.dev">Go</a> and <a href="https://go.dev">go</a></p>` + "\n"},
		{"image", "![alt *x*](/img.png)\n", `<p><img src="/img.png" alt="alt *x*"></p>` + "\n"},
		{"code span and escapes", "Use `a<b` and \\*not\\*\n", "<p>Use <code>a&lt;b</code> and *not*</p>\n"},
		{"autolinks", "<https://go.dev> mail <a@b.org>\n",
			`<p><a href="https://go.dev">https://go.dev</a> mail <a href="mailto:a@b.org">a@b.org</a></p>` + "\n"},
		{"hard break", "a  \nb\n", "<p>a<br>\nb</p>\n"},
		{"math", "$$\nx^2\n$$\n", `<div class="math math-display">x^2</div>` + "\n"},
		{"inline math", "Let $a+b$ be.\n", `<p>Let <span class="math math-inline">a+b</span> be.</p>` + "\n"},
	}
	for _, c := range cases {
		out, _ := render(t, c.src, tree.DefaultOptions())
		assert.Equal(t, c.html, out, c.name)
	}
}

func TestSoftLineBreaks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	opts := tree.DefaultOptions()
	opts.LineBreak = tree.Soft
	out, _ := render(t, "a\nb\n", opts)
	assert.Equal(t, "<p>a<br>\nb</p>\n", out)
}

func TestTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	src := "| a | b |\n|:--|--:|\n| 1 | *2* |\n| 3 |\n"
	out, _ := render(t, src, tree.DefaultOptions())
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, cascadia.MustCompile("thead th").MatchAll(doc), 2)
	assert.Len(t, cascadia.MustCompile("tbody tr").MatchAll(doc), 2)
	assert.Len(t, cascadia.MustCompile("tbody td").MatchAll(doc), 4, "short rows are padded")
	assert.Len(t, cascadia.MustCompile(`td[style*="right"] em`).MatchAll(doc), 1)
	assert.Contains(t, out, `<th style="text-align: left;">a</th>`)
	//
	out, _ = render(t, "| a | b |\n|---|\n", tree.DefaultOptions())
	assert.NotContains(t, out, "<table>", "column count mismatch")
}

func TestHeadingAnchorsAndTOC(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	out, state := render(t, "# A\n\n## A\n", tree.DefaultOptions())
	assert.Contains(t, out, `<h1 id="a">A</h1>`)
	assert.Contains(t, out, `<h2 id="a-1">A</h2>`)
	require.Equal(t, 2, state.TOC().Len())
	assert.Equal(t, "a-1", state.TOC().Entries()[1].Anchor)
}

func TestFootnotes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	out, state := render(t, "Text[^1] and [^x].\n\n[^1]: Note.\n", tree.DefaultOptions())
	assert.Contains(t, out, `<sup class="footnote-ref" id="fnref-1"><a href="#fn-1">1</a></sup>`)
	assert.Contains(t, out, "[^x]", "undefined footnotes stay text")
	assert.Contains(t, out, `<div class="footnote" id="fn-1">`+"\n<sup>1</sup>\n<p>Note.</p>\n")
	assert.Contains(t, out, `<a href="#fnref-1" class="footnote-backref">`)
	assert.True(t, state.Anchors().Has("fn-1"))
}

func TestWordCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	_, state := render(t, "Hello world, this is 42.\n", tree.DefaultOptions())
	assert.Equal(t, 5, state.Counter().Words())
}

func TestDefinitionsInsideFencesIgnored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.rules")
	defer teardown()
	//
	out, _ := render(t, "[x]\n\n```\n[x]: /nope\n```\n", tree.DefaultOptions())
	assert.Contains(t, out, "<p>[x]</p>")
	assert.Contains(t, out, "[x]: /nope")
}

func TestScanHelpers(t *testing.T) {
	assert.Equal(t, 4, indentOf("\tx"))
	assert.Equal(t, "  x", stripIndent("      x", 4))
	assert.Equal(t, []string{"a", `b \| c`, ""}, splitCells(`| a | b \| c | |`))
	assert.Equal(t, "Hello World", plainText("Hello *[World](/w)*"))
	assert.Equal(t, "foo bar", normLabel("  Foo\n  BAR "))
	ld, n, ok := parseInlineDest(`(<a b> 'T') rest`)
	require.True(t, ok)
	assert.Equal(t, LinkData{Dest: "a b", Title: "T"}, ld)
	assert.Equal(t, 11, n)
}
