package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/core/parameters"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
)

// Tokenizer produces document trees for a render pass. A tokenizer is not
// safe for concurrent use.
type Tokenizer struct {
	binder *rule.Binder
	hooks  Hooks
	regs   *parameters.Registers
	depth  int
}

// New creates a tokenizer matching the rules bound by binder.
func New(binder *rule.Binder, hooks Hooks) *Tokenizer {
	return &Tokenizer{binder: binder, hooks: hooks}
}

// piece is either a node or a gap of unmatched text.
type piece struct {
	node     *tree.Node
	from, to int // gap span, if node is nil
}

// Tokenize tokenizes src and normalizes the result.
func (tz *Tokenizer) Tokenize(src string, opts tree.Options) ([]*tree.Node, error) {
	if !opts.MaxLevel.Valid() {
		return nil, core.Error(core.EINVALID, "invalid maximum level %s", opts.MaxLevel)
	}
	if opts.LineBreak != tree.CommonMark && opts.LineBreak != tree.Soft {
		return nil, core.Error(core.EINVALID, "invalid line-break mode %s", opts.LineBreak)
	}
	if opts.MaxLevel != tree.Block {
		opts.SkipParagraphWrapping = true // paragraphs are blocks
	}
	tz.regs = parameters.NewRegisters(opts)
	tz.depth = 0
	return tz.tokenize(src)
}

// tokenize tokenizes src with the options currently in the registers.
func (tz *Tokenizer) tokenize(src string) ([]*tree.Node, error) {
	opts := tz.regs.Options()
	src = runSourceHooks(tz.hooks.PreTokenize, src)
	tracer().Debugf("tokenize[%d] %d bytes up to %s", tz.depth, len(src), opts.MaxLevel)
	pieces := []piece{{from: 0, to: len(src)}}
	for _, level := range tree.LevelsFrom(opts.MaxLevel) {
		next := make([]piece, 0, len(pieces))
		for _, p := range pieces {
			if p.node != nil || p.from == p.to {
				next = append(next, p)
				continue
			}
			matched, err := tz.matchLevel(level, src, p.from, p.to)
			if err != nil {
				return nil, err
			}
			next = append(next, matched...)
		}
		pieces = next
	}
	nodes := make([]*tree.Node, 0, len(pieces))
	for _, p := range pieces {
		if p.node != nil {
			nodes = append(nodes, p.node)
		} else if p.from < p.to {
			nodes = append(nodes, tree.NewText(src[p.from:p.to], p.from))
		}
	}
	nodes = runNodeHooks(tz.hooks.PreNormalize, nodes, opts)
	if opts.SkipParagraphWrapping {
		nodes = Trim(nodes)
	} else {
		nodes = WrapParagraphs(nodes, opts)
	}
	nodes = runNodeHooks(tz.hooks.PostNormalize, nodes, opts)
	for _, n := range nodes {
		if n.IsParagraph() && n.Children != nil && !n.Children.IsList() {
			b, _ := n.Children.Value()
			b.Nodes = NormalizeBreaks(b.Nodes, opts.LineBreak)
			ch := tree.Single(b)
			n.Children = &ch
		}
	}
	nodes = NormalizeBreaks(nodes, opts.LineBreak)
	nodes = runNodeHooks(tz.hooks.PostTokenize, nodes, opts)
	return nodes, nil
}

// matchLevel runs the rules of a level over the gap src[from:to].
func (tz *Tokenizer) matchLevel(level tree.Level, src string, from, to int) ([]piece, error) {
	rules, err := tz.binder.Rules(level)
	if err != nil {
		return nil, err
	}
	text := src[from:to]
	offsets := treemap.NewWithIntComparator()
	for _, r := range rules {
		scan := 0
		for at := r.Start.FindFrom(text, 0); at >= 0; {
			if at < scan || at > len(text) {
				return nil, core.Error(core.ERULE, "rule %s reported start offset %d outside gap", r.Key(), at)
			}
			var cands []*rule.Rule
			if v, found := offsets.Get(at); found {
				cands = v.([]*rule.Rule)
			}
			offsets.Put(at, append(cands, r))
			scan = advance(level, text, at)
			if scan > len(text) {
				break
			}
			at = r.Start.FindFrom(text, scan)
		}
	}
	var pieces []piece
	cursor := 0
	it := offsets.Iterator()
	for it.Next() {
		at := it.Key().(int)
		if at < cursor {
			continue
		}
		for _, r := range it.Value().([]*rule.Rule) {
			res, err := tz.parse(r, text[at:], from+at)
			if err != nil {
				return nil, err
			}
			if res == nil {
				continue
			}
			node, err := tz.makeNode(r, res, from+at)
			if err != nil {
				return nil, err
			}
			if at > cursor {
				pieces = append(pieces, piece{from: from + cursor, to: from + at})
			}
			pieces = append(pieces, piece{node: node})
			cursor = at + len(res.Raw)
			break
		}
	}
	if cursor < len(text) {
		pieces = append(pieces, piece{from: from + cursor, to: to})
	}
	return pieces, nil
}

// advance returns the scan position after a start offset: the next rune
// for inline and atomic levels, the next line start for the block level.
func advance(level tree.Level, text string, at int) int {
	if at >= len(text) {
		return len(text) + 1
	}
	if level == tree.Block {
		nl := strings.IndexByte(text[at:], '\n')
		if nl < 0 {
			return len(text) + 1
		}
		return at + nl + 1
	}
	_, size := utf8.DecodeRuneInString(text[at:])
	return at + size
}

// parse calls a rule's parse operation and checks its result.
// An empty result counts as no match.
func (tz *Tokenizer) parse(r *rule.Rule, input string, pos int) (*rule.Result, error) {
	_, rc, err := tz.binder.Lookup(r.Level, r.Name)
	if err != nil {
		return nil, err
	}
	res, err := r.Parse(rc, input)
	if err != nil {
		return nil, core.WrapError(err, core.ERULE, "rule %s failed at offset %d", r.Key(), pos)
	}
	if res == nil || res.Raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(input, res.Raw) {
		return nil, core.Error(core.ERULE, "rule %s consumed text not at offset %d", r.Key(), pos)
	}
	if r.Level == tree.Atomic && res.Children != nil {
		return nil, core.Error(core.ERULE, "atomic rule %s requested child content", r.Key())
	}
	return res, nil
}

// makeNode creates the node for a parse result, tokenizing child content.
func (tz *Tokenizer) makeNode(r *rule.Rule, res *rule.Result, pos int) (*tree.Node, error) {
	node := &tree.Node{
		Type: r.Level,
		Name: r.Name,
		Raw:  res.Raw,
		Pos:  pos,
		Data: res.Data,
	}
	if res.Children == nil {
		return node, nil
	}
	children, err := tree.MapShape(*res.Children, func(c tree.Content) (tree.Branch, error) {
		return tz.tokenizeChild(r, c)
	})
	if err != nil {
		return nil, err
	}
	node.Children = &children
	return node, nil
}

// tokenizeChild tokenizes one child-content descriptor in a parameter group.
func (tz *Tokenizer) tokenizeChild(parent *rule.Rule, c tree.Content) (tree.Branch, error) {
	inherited := tz.regs.Options()
	opts := c.Override.Apply(inherited)
	opts.MaxLevel = tree.Min(parent.Level, opts.MaxLevel)
	if opts.MaxLevel != tree.Block {
		opts.SkipParagraphWrapping = true
	}
	tz.regs.Begingroup()
	tz.depth++
	defer func() {
		tz.depth--
		tz.regs.Endgroup()
	}()
	tz.regs.PushOptions(opts)
	nodes, err := tz.tokenize(c.Text)
	if err != nil {
		return tree.Branch{}, err
	}
	return tree.Branch{Nodes: nodes, Options: opts}, nil
}
