package tree

import (
	"fmt"
	"strings"
)

// Names of nodes the engine itself creates or consumes.
const (
	TextName      = "text"       // leftover text
	LineBreakName = "line-break" // soft break marker
	HardBreakName = "hard-break" // hard break marker
	ParagraphName = "paragraph"  // synthetic paragraph wrapper
)

// Branch is the node sequence of one child-content slot, tagged with the
// options it was tokenized with.
type Branch struct {
	Nodes   []*Node
	Options Options
}

// Node is a matched construct or a span of leftover text.
// Atomic nodes have no children.
type Node struct {
	Type     Level       // level of the producing rule
	Name     string      // name of the producing rule
	Raw      string      // consumed source
	Pos      int         // byte offset into the (sub-)document
	Data     interface{} // rule-private data
	Children *Children   // child sequences, nil if none requested
}

// NewText creates a leftover-text node.
func NewText(raw string, pos int) *Node {
	return &Node{Type: Atomic, Name: TextName, Raw: raw, Pos: pos}
}

// NewParagraph wraps nodes in a synthetic paragraph block node.
func NewParagraph(nodes []*Node, opts Options) *Node {
	var raw strings.Builder
	pos := 0
	if len(nodes) > 0 {
		pos = nodes[0].Pos
	}
	for _, n := range nodes {
		raw.WriteString(n.Raw)
	}
	ch := Single(Branch{Nodes: nodes, Options: opts})
	return &Node{
		Type:     Block,
		Name:     ParagraphName,
		Raw:      raw.String(),
		Pos:      pos,
		Children: &ch,
	}
}

// IsBreak is true for soft and hard break markers.
func (n *Node) IsBreak() bool {
	return n.Type == Atomic && (n.Name == LineBreakName || n.Name == HardBreakName)
}

// IsHardBreak is true for hard break markers.
func (n *Node) IsHardBreak() bool {
	return n.Type == Atomic && n.Name == HardBreakName
}

// IsParagraph is true for synthetic paragraph nodes.
func (n *Node) IsParagraph() bool {
	return n.Type == Block && n.Name == ParagraphName
}

// ChildNodes returns all child nodes of n, slot by slot.
func (n *Node) ChildNodes() []*Node {
	if n.Children == nil {
		return nil
	}
	var nodes []*Node
	for _, b := range n.Children.Flatten() {
		nodes = append(nodes, b.Nodes...)
	}
	return nodes
}

func (n *Node) String() string {
	return fmt.Sprintf("%s/%s %q", n.Type, n.Name, n.Raw)
}

// Leaves returns the atomic leaves below nodes, in document order.
func Leaves(nodes []*Node) []*Node {
	var leaves []*Node
	for _, n := range nodes {
		if n.Type == Atomic {
			leaves = append(leaves, n)
			continue
		}
		leaves = append(leaves, Leaves(n.ChildNodes())...)
	}
	return leaves
}

// Walk calls f for every node in pre-order. If f returns false, the
// children of that node are skipped.
func Walk(nodes []*Node, f func(*Node) bool) {
	for _, n := range nodes {
		if f(n) {
			Walk(n.ChildNodes(), f)
		}
	}
}

// Equal compares two node sequences structurally. Data is not compared.
func Equal(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalNode(a, b *Node) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Raw != b.Raw || a.Pos != b.Pos {
		return false
	}
	if (a.Children == nil) != (b.Children == nil) {
		return false
	}
	if a.Children == nil {
		return true
	}
	return equalChildren(*a.Children, *b.Children)
}

func equalChildren(a, b Children) bool {
	if a.IsList() != b.IsList() || a.Len() != b.Len() {
		return false
	}
	if !a.IsList() {
		x, _ := a.Value()
		y, _ := b.Value()
		return x.Options == y.Options && Equal(x.Nodes, y.Nodes)
	}
	for i := 0; i < a.Len(); i++ {
		if !equalChildren(a.At(i), b.At(i)) {
			return false
		}
	}
	return true
}

// Dump writes an indented outline of nodes, for tests and tracing.
func Dump(nodes []*Node) string {
	var b strings.Builder
	dump(&b, nodes, 0)
	return b.String()
}

func dump(b *strings.Builder, nodes []*Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", depth), n)
		if n.Children != nil {
			for _, br := range n.Children.Flatten() {
				dump(b, br.Nodes, depth+1)
			}
		}
	}
}
