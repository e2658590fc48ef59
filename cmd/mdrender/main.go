/*
Command mdrender renders Markdown files to HTML.

	mdrender render README.md --toc --out README.html
	mdrender stats README.md
	mdrender rules --level inline

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/mdkit/engine/tree/treedebug"
	"github.com/npillmayer/mdkit/input/markdown"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
)

// tracer traces with key 'mdkit.markdown'
func tracer() tracing.Trace {
	return tracing.Select("mdkit.markdown")
}

// CLI is the command line interface of mdrender.
type CLI struct {
	Trace string `help:"Trace level [Debug|Info|Error]" enum:"Debug,Info,Error" default:"Error"`

	Render RenderCmd `cmd:"" help:"Render a Markdown file to HTML"`
	Stats  StatsCmd  `cmd:"" help:"Print statistics of a Markdown file"`
	Rules  RulesCmd  `cmd:"" help:"List rules in matching order"`
}

// RenderCmd renders a file.
type RenderCmd struct {
	File         string `arg:"" help:"Markdown file"`
	Out          string `short:"o" help:"Output file (default: stdout)"`
	LineBreak    string `enum:"common-mark,soft" default:"common-mark" help:"Line break mode"`
	NoParagraphs bool   `help:"Do not wrap text into paragraphs"`
	TOC          bool   `name:"toc" help:"Prepend a table of contents"`
	FrontMatter  bool   `help:"Split off YAML front matter"`
	Dot          string `help:"Write the document tree as GraphViz DOT to this file"`
}

func (c *RenderCmd) Run(kctx *kong.Context, fs afero.Fs) error {
	src, err := afero.ReadFile(fs, c.File)
	if err != nil {
		return err
	}
	lb, err := tree.ParseLineBreak(c.LineBreak)
	if err != nil {
		return err
	}
	opts := tree.DefaultOptions()
	opts.LineBreak = lb
	opts.SkipParagraphWrapping = c.NoParagraphs
	md := markdown.New(markdown.WithOptions(opts), markdown.WithFrontMatter(c.FrontMatter))
	doc, err := md.Render(context.Background(), string(src))
	if err != nil {
		return err
	}
	html := doc.HTML
	if c.TOC {
		html = doc.TOC.HTML() + html
	}
	if c.Dot != "" {
		if err := writeDot(fs, c.Dot, doc); err != nil {
			return err
		}
	}
	if c.Out == "" {
		_, err = io.WriteString(kctx.Stdout, html)
		return err
	}
	if err = afero.WriteFile(fs, c.Out, []byte(html), 0644); err != nil {
		return err
	}
	tracer().Infof("wrote %s of HTML to %s", humanize.Bytes(uint64(len(html))), c.Out)
	return nil
}

func writeDot(fs afero.Fs, name string, doc *markdown.Document) error {
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	if err = treedebug.ToGraphViz(doc.Nodes, f, tracer()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// StatsCmd prints statistics of a file.
type StatsCmd struct {
	File        string `arg:"" help:"Markdown file"`
	FrontMatter bool   `help:"Split off YAML front matter"`
}

func (c *StatsCmd) Run(kctx *kong.Context, fs afero.Fs) error {
	src, err := afero.ReadFile(fs, c.File)
	if err != nil {
		return err
	}
	doc, err := markdown.New(markdown.WithFrontMatter(c.FrontMatter)).Render(context.Background(), string(src))
	if err != nil {
		return err
	}
	fmt.Fprintf(kctx.Stdout, "size:     %s\n", humanize.Bytes(uint64(len(src))))
	fmt.Fprintf(kctx.Stdout, "words:    %s\n", humanize.Comma(int64(doc.Words)))
	fmt.Fprintf(kctx.Stdout, "chars:    %s\n", humanize.Comma(int64(doc.Chars)))
	fmt.Fprintf(kctx.Stdout, "headings: %d\n", doc.TOC.Len())
	return nil
}

// RulesCmd lists the default rules.
type RulesCmd struct {
	Level string `enum:"all,block,inline,atomic" default:"all" help:"Grammar level"`
}

func (c *RulesCmd) Run(kctx *kong.Context) error {
	levels := tree.LevelsFrom(tree.Block)
	if c.Level != "all" {
		l, err := tree.ParseLevel(c.Level)
		if err != nil {
			return err
		}
		levels = []tree.Level{l}
	}
	md := markdown.New()
	for _, l := range levels {
		fmt.Fprintf(kctx.Stdout, "%s:\n", l)
		for i, name := range md.RuleOrder(l) {
			fmt.Fprintf(kctx.Stdout, "  %2d  %s\n", i+1, name)
		}
	}
	return nil
}

// newParser creates the command line parser. Commands read and write files
// through fs.
func newParser(cli *CLI, stdout, stderr io.Writer, fs afero.Fs, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("mdrender"),
		kong.Description("Render Markdown to HTML"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.BindTo(fs, (*afero.Fs)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	}, options...)
	return kong.New(cli, options...)
}

func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range []string{"mdkit.core", "mdkit.engine", "mdkit.rules", "mdkit.pass", "mdkit.markdown"} {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Stderr, afero.NewOsFs())
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	if err = setupTracing(cli.Trace); err != nil {
		pterm.Error.Println("error configuring tracing")
		os.Exit(1)
	}
	if err = kctx.Run(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
