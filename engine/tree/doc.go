/*
Package tree defines the document tree produced by the tokenizer.

A document is a sequence of nodes. Every node belongs to one of three
grammar levels: block, inline or atomic, with block being the coarsest.
Atomic nodes are leaves; inline and block nodes may own child sequences,
organized in the same shape as the child-content request of the rule
that produced them (a single slot or a possibly nested list of slots).

Shapes are a small tagged variant type:

	req := tree.List(tree.Single(cell1), tree.Single(cell2))
	rendered, err := tree.MapShape(children, renderBranch)

MapShape keeps the structure, so a rule that asked for a list of child
slots receives a list of rendered strings.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree
