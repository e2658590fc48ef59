/*
Package markdown renders Markdown documents to HTML.

It puts together the rule engine and the default grammar of package builtin.
A process-wide default registry holds the builtin rules. Every Markdown
instance may layer rules of its own on top of it, or remove rules, without
changing the default registry.

	md := markdown.New(markdown.WithFrontMatter(true))
	doc, err := md.Render(ctx, src)
	fmt.Println(doc.HTML)

Rendering a document is a single pass: front matter is split off, the
remaining body is tokenized, and the resulting node tree is transformed
to HTML. Each pass has its own anchor registry, table of contents and word
counter.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markdown

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/mdkit/engine/pass"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tokenizer"
	"github.com/npillmayer/mdkit/engine/transform"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/mdkit/engine/tree/xpathadapter"
	"github.com/npillmayer/mdkit/input/markdown/builtin"
	"github.com/npillmayer/mdkit/input/markdown/frontmatter"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.markdown")
}

var (
	defaultRegistry *rule.Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry of default rules.
// Clients may register rules with it; these will be visible to every
// Markdown instance created afterwards.
func DefaultRegistry() *rule.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = rule.MustRegistry(builtin.Rules()...)
	})
	return defaultRegistry
}

// NodesHook transforms the document tree before it is rendered.
type NodesHook func(nodes []*tree.Node) []*tree.Node

// HTMLHook transforms the rendered HTML.
type HTMLHook func(html string) string

// TransformHooks are called once per render pass.
type TransformHooks struct {
	PreTransform  []NodesHook
	PostTransform []HTMLHook
}

// Markdown is a configured renderer. It is safe for concurrent use; rules
// changed with Use or Remove take effect for render passes started afterwards.
type Markdown struct {
	mu          sync.RWMutex
	opts        tree.Options
	hooks       tokenizer.Hooks
	thooks      TransformHooks
	frontMatter bool
	rules       *rule.Registry // instance rules
	removed     map[rule.Key]struct{}
	err         error // deferred option error
}

// Option configures a Markdown instance.
type Option func(*Markdown)

// WithOptions sets the tokenize options of the top-level document.
func WithOptions(opts tree.Options) Option {
	return func(md *Markdown) {
		md.opts = opts
	}
}

// WithHooks sets tokenizer hooks.
func WithHooks(hooks tokenizer.Hooks) Option {
	return func(md *Markdown) {
		md.hooks = hooks
	}
}

// WithTransformHooks sets hooks around the transform to HTML.
func WithTransformHooks(hooks TransformHooks) Option {
	return func(md *Markdown) {
		md.thooks = hooks
	}
}

// WithFrontMatter enables or disables YAML front matter.
func WithFrontMatter(enable bool) Option {
	return func(md *Markdown) {
		md.frontMatter = enable
	}
}

// WithRules adds instance rules. Invalid rules make every Render fail.
func WithRules(rules ...*rule.Rule) Option {
	return func(md *Markdown) {
		if err := md.Use(rules...); err != nil {
			md.err = err
		}
	}
}

// New creates a Markdown renderer.
func New(opts ...Option) *Markdown {
	md := &Markdown{
		opts:    tree.DefaultOptions(),
		rules:   rule.MustRegistry(),
		removed: make(map[rule.Key]struct{}),
	}
	for _, opt := range opts {
		opt(md)
	}
	return md
}

// Use adds instance rules, overriding default rules with the same level
// and name.
func (md *Markdown) Use(rules ...*rule.Rule) error {
	md.mu.Lock()
	defer md.mu.Unlock()
	if _, err := md.rules.Register(rules...); err != nil {
		return err
	}
	for _, r := range rules {
		delete(md.removed, r.Key())
	}
	return nil
}

// Remove removes a rule for this instance. It reports false if no such
// rule exists.
func (md *Markdown) Remove(level tree.Level, name string) bool {
	md.mu.Lock()
	defer md.mu.Unlock()
	own := md.rules.Remove(level, name)
	_, dflt := DefaultRegistry().Lookup(level, name)
	if dflt {
		md.removed[rule.Key{Level: level, Name: name}] = struct{}{}
	}
	return own || dflt
}

// registry composes the effective rules of this instance.
func (md *Markdown) registry() *rule.Registry {
	md.mu.RLock()
	defer md.mu.RUnlock()
	reg := rule.Compose(DefaultRegistry(), md.rules)
	for k := range md.removed {
		reg.Remove(k.Level, k.Name)
	}
	return reg
}

// RuleOrder returns the names of the rules of a level, in matching order.
func (md *Markdown) RuleOrder(level tree.Level) []string {
	set := treeset.NewWith(rule.CompareRules)
	for _, r := range md.registry().Rules(level) {
		set.Add(r)
	}
	names := make([]string, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		names = append(names, it.Value().(*rule.Rule).Name)
	}
	return names
}

// Document is the result of a render pass.
type Document struct {
	HTML        string
	Nodes       []*tree.Node
	Fragments   []transform.Fragment
	TOC         *pass.TOC
	Words       int
	Chars       int
	FrontMatter map[string]interface{}
	PassID      string
}

// Query selects nodes of the document tree with an XPath expression.
// Elements are named by rule name and have attributes "level" and "pos".
func (doc *Document) Query(expr string) ([]*tree.Node, error) {
	return xpathadapter.Select(doc.Nodes, expr)
}

// Render renders src in a new pass.
func (md *Markdown) Render(ctx context.Context, src string) (*Document, error) {
	if md.err != nil {
		return nil, md.err
	}
	var meta map[string]interface{}
	body := src
	if md.frontMatter {
		var err error
		if meta, body, err = frontmatter.Split(src); err != nil {
			return nil, err
		}
	}
	state := pass.NewState(body)
	binder, err := rule.NewBinder(ctx, md.registry().Snapshot(), state)
	if err != nil {
		return nil, err
	}
	nodes, err := tokenizer.New(binder, md.hooks).Tokenize(body, md.opts)
	if err != nil {
		return nil, err
	}
	for _, h := range md.thooks.PreTransform {
		nodes = h(nodes)
	}
	out, err := transform.Render(binder, nodes)
	if err != nil {
		return nil, err
	}
	html := out.String()
	for _, h := range md.thooks.PostTransform {
		html = h(html)
	}
	tracer().Infof("pass %s: %d top-level nodes, %d bytes of HTML", state.ID, len(nodes), len(html))
	return &Document{
		HTML:        html,
		Nodes:       nodes,
		Fragments:   out.Fragments(),
		TOC:         state.TOC(),
		Words:       state.Counter().Words(),
		Chars:       state.Counter().Chars(),
		FrontMatter: meta,
		PassID:      state.ID.String(),
	}, nil
}

// Render renders src with the default rules and options.
func Render(src string) (string, error) {
	doc, err := New().Render(context.Background(), src)
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}
