package tokenizer

import "github.com/npillmayer/mdkit/engine/tree"

// Trim drops leading and trailing break nodes.
func Trim(nodes []*tree.Node) []*tree.Node {
	i, j := 0, len(nodes)
	for i < j && nodes[i].IsBreak() {
		i++
	}
	for j > i && nodes[j-1].IsBreak() {
		j--
	}
	return nodes[i:j]
}

// WrapParagraphs wraps every run of non-block nodes into a synthetic
// paragraph. Runs are trimmed first; runs empty after trimming are dropped.
// Block nodes are kept as they are.
func WrapParagraphs(nodes []*tree.Node, opts tree.Options) []*tree.Node {
	inner := tree.Options{
		MaxLevel:              tree.Inline,
		SkipParagraphWrapping: true,
		LineBreak:             opts.LineBreak,
	}
	out := make([]*tree.Node, 0, len(nodes))
	var run []*tree.Node
	flush := func() {
		if run = Trim(run); len(run) > 0 {
			out = append(out, tree.NewParagraph(run, inner))
		}
		run = nil
	}
	for _, n := range nodes {
		if n.Type == tree.Block {
			flush()
			out = append(out, n)
			continue
		}
		run = append(run, n)
	}
	flush()
	return out
}

// NormalizeBreaks resolves the break nodes of a sibling sequence.
//
// Hard breaks are kept. Under CommonMark rules, a soft break is kept only
// if it follows another break, so a single newline never produces a break;
// instead, the text on both sides is joined with a synthetic "\n" text node.
// Under soft rules, the first break of a run is kept. Further breaks of a
// run are dropped. No break is kept at either end of the sequence or next
// to a block node.
func NormalizeBreaks(nodes []*tree.Node, mode tree.LineBreak) []*tree.Node {
	out := make([]*tree.Node, 0, len(nodes))
	inBreak := false // the last items seen were breaks
	emitted := false // a break has been kept at the current position
	breakPos := 0
	canBreak := func() bool {
		return len(out) > 0 && out[len(out)-1].Type != tree.Block
	}
	for _, n := range nodes {
		switch {
		case n.IsHardBreak():
			if canBreak() {
				out = append(out, n)
				emitted = true
			}
			inBreak, breakPos = true, n.Pos
		case n.IsBreak():
			keep := false
			if mode == tree.Soft {
				keep = !inBreak
			} else {
				keep = inBreak && !emitted
			}
			if keep && canBreak() {
				out = append(out, n)
				emitted = true
			}
			inBreak, breakPos = true, n.Pos
		case n.Type == tree.Block:
			out = trimTrailingBreaks(out)
			out = append(out, n)
			inBreak, emitted = false, false
		default:
			if inBreak && !emitted && canBreak() {
				out = append(out, tree.NewText("\n", breakPos))
			}
			out = append(out, n)
			inBreak, emitted = false, false
		}
	}
	return trimTrailingBreaks(out)
}

func trimTrailingBreaks(nodes []*tree.Node) []*tree.Node {
	j := len(nodes)
	for j > 0 && nodes[j-1].IsBreak() {
		j--
	}
	return nodes[:j]
}
