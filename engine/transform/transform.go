/*
Package transform renders document trees to markup.

Rendering is bottom-up: the children of a node are rendered before the node
itself, and the rule owning the node receives the rendered children in the
shape it requested them in. The engine adds no separators; the output is the
concatenation of the top-level nodes' markup.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transform

import (
	"strings"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.engine")
}

// Transform renders a node sequence and returns the concatenated markup.
func Transform(binder *rule.Binder, nodes []*tree.Node) (string, error) {
	out, err := Render(binder, nodes)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Render renders a node sequence into an Output, which keeps track of the
// top-level node each fragment of markup stems from.
func Render(binder *rule.Binder, nodes []*tree.Node) (*Output, error) {
	b := cords.NewBuilder()
	var frags []*Leaf
	for _, n := range nodes {
		s, err := Node(binder, n)
		if err != nil {
			return nil, err
		}
		if s == "" {
			continue
		}
		leaf := &Leaf{node: n, length: uint64(len(s)), content: s}
		b.Append(leaf)
		frags = append(frags, leaf)
	}
	tracer().Debugf("rendered %d nodes into %d fragments", len(nodes), len(frags))
	return &Output{cord: b.Cord(), leaves: frags}, nil
}

// Node renders a single node, children first.
func Node(binder *rule.Binder, n *tree.Node) (string, error) {
	r, rc, err := binder.Lookup(n.Type, n.Name)
	if err != nil {
		return "", err
	}
	var children tree.Rendered
	if n.Children != nil {
		children, err = tree.MapShape(*n.Children, func(br tree.Branch) (string, error) {
			return branch(binder, br.Nodes)
		})
		if err != nil {
			return "", err
		}
	}
	s, err := r.Render(rc, rule.Rendering{Node: n, Children: children})
	if err != nil {
		return "", core.WrapError(err, core.ERULE, "rule %s failed rendering node at offset %d",
			r.Key(), n.Pos)
	}
	return s, nil
}

func branch(binder *rule.Binder, nodes []*tree.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		s, err := Node(binder, n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// --- Output ----------------------------------------------------------------

// Output is rendered markup, stored as a rope of per-node fragments.
type Output struct {
	cord   cords.Cord
	leaves []*Leaf
}

// String returns the complete markup.
func (o *Output) String() string {
	if o.cord.IsVoid() {
		return ""
	}
	return o.cord.String()
}

// Fragment is the markup of one top-level node.
type Fragment struct {
	Node   *tree.Node
	Markup string
}

// Fragments returns the markup fragments in document order. Nodes rendering
// to the empty string have no fragment.
func (o *Output) Fragments() []Fragment {
	frags := make([]Fragment, len(o.leaves))
	for i, l := range o.leaves {
		frags[i] = Fragment{Node: l.node, Markup: l.content}
	}
	return frags
}

// Leaf is the cord leaf type for rendered nodes.
type Leaf struct {
	node    *tree.Node
	length  uint64
	content string
}

// Weight of a leaf is its markup length in bytes.
func (l Leaf) Weight() uint64 {
	return l.length
}

func (l Leaf) String() string {
	return l.content
}

// Split splits a leaf at position i. Both halves stem from the same node.
func (l Leaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	left := &Leaf{node: l.node, length: i, content: l.content[:i]}
	right := &Leaf{node: l.node, length: l.length - i, content: l.content[i:]}
	return left, right
}

// Substring returns a segment of the leaf's markup.
func (l Leaf) Substring(i, j uint64) []byte {
	return []byte(l.content)[i:j]
}

var _ cords.Leaf = Leaf{}
