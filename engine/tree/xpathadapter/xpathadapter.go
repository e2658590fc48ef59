/*
Package xpathadapter implements an xpath.NodeNavigator for document trees.

We use this library for XPath queries:

	github.com/antchfx/xpath

Every node of a tree.Node sequence appears as an element named after the
rule which produced it ("heading", "emphasis", "text", …). Elements carry
two attributes, "level" (atomic, inline or block) and "pos" (the byte
offset of the node). The string value of an element is its raw source.
Child slots of a node are flattened, so a table's cells appear as siblings
below the table element. The node sequence itself hangs below a synthetic
root node.

	nodes, err := xpathadapter.Select(doc, "//heading[@level='block']")

For a description of the various methods of interface xpath.NodeNavigator
please refer to the documentation of antchfx/xpath. It is not replicated here.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package xpathadapter

import (
	"errors"
	"strconv"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.engine")
}

// navNode decorates a tree node with the parent links the navigator needs.
type navNode struct {
	node     *tree.Node // nil for the root
	parent   *navNode
	children []*navNode
	index    int // index within parent.children
	attrs    [][2]string
}

func build(parent *navNode, nodes []*tree.Node) {
	parent.children = make([]*navNode, len(nodes))
	for i, n := range nodes {
		nn := &navNode{
			node:   n,
			parent: parent,
			index:  i,
			attrs: [][2]string{
				{"level", n.Type.String()},
				{"pos", strconv.Itoa(n.Pos)},
			},
		}
		parent.children[i] = nn
		build(nn, n.ChildNodes())
	}
}

// NodeNavigator navigates a document tree.
type NodeNavigator struct {
	root, current *navNode
	attr          int // attributes index
}

// NewNavigator creates a new xpath.NodeNavigator for a node sequence.
func NewNavigator(nodes []*tree.Node) *NodeNavigator {
	root := &navNode{}
	build(root, nodes)
	return &NodeNavigator{
		current: root,
		root:    root,
		attr:    -1,
	}
}

// CurrentNode returns the tree node a navigator is positioned at.
// For the root position it returns nil.
func CurrentNode(nav xpath.NodeNavigator) (*tree.Node, error) {
	mynav, ok := nav.(*NodeNavigator)
	if !ok {
		return nil, errors.New("navigator is not of type xpathadapter.NodeNavigator")
	}
	return mynav.current.node, nil
}

// Select returns all nodes matching an XPath expression, in document order.
func Select(nodes []*tree.Node, expr string) ([]*tree.Node, error) {
	x, err := xpath.Compile(expr)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid xpath expression %q", expr)
	}
	iter := x.Select(NewNavigator(nodes))
	var result []*tree.Node
	seen := make(map[*tree.Node]bool)
	for iter.MoveNext() {
		n, err := CurrentNode(iter.Current())
		if err != nil {
			return nil, err
		}
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	tracer().Debugf("xpath %q selected %d nodes", expr, len(result))
	return result, nil
}

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch {
	case nav.current == nav.root:
		return xpath.RootNode
	case nav.attr != -1:
		return xpath.AttributeNode
	}
	return xpath.ElementNode
}

func (nav *NodeNavigator) LocalName() string {
	if nav.current == nav.root {
		return ""
	}
	if nav.attr != -1 {
		return nav.current.attrs[nav.attr][0]
	}
	return nav.current.node.Name
}

func (*NodeNavigator) Prefix() string {
	return ""
}

func (nav *NodeNavigator) Value() string {
	if nav.current == nav.root {
		var raw string
		for _, ch := range nav.root.children {
			raw += ch.node.Raw
		}
		return raw
	}
	if nav.attr != -1 {
		return nav.current.attrs[nav.attr][1]
	}
	return nav.current.node.Raw
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current == nav.root || nav.current.parent == nil {
		return false
	}
	nav.current = nav.current.parent
	return true
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.current == nav.root || nav.attr >= len(nav.current.attrs)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 || len(nav.current.children) == 0 {
		return false
	}
	nav.current = nav.current.children[0]
	return true
}

func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current.parent == nil || nav.current.index == 0 {
		return false
	}
	nav.current = nav.current.parent.children[0]
	return true
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 || nav.current.parent == nil {
		return false
	}
	siblings := nav.current.parent.children
	if nav.current.index+1 >= len(siblings) {
		return false
	}
	nav.current = siblings[nav.current.index+1]
	return true
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 || nav.current.parent == nil || nav.current.index == 0 {
		return false
	}
	nav.current = nav.current.parent.children[nav.current.index-1]
	return true
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	return true
}

var _ xpath.NodeNavigator = &NodeNavigator{}
