package tokenizer

import "github.com/npillmayer/mdkit/engine/tree"

// SourceHook transforms source text before it is tokenized.
type SourceHook func(src string) string

// NodeHook transforms a node sequence. opts are the options of the
// tokenize call the sequence belongs to.
type NodeHook func(nodes []*tree.Node, opts tree.Options) []*tree.Node

// Hooks are called once per tokenize call, nested calls for child content
// included. Hooks of a kind are called in order, each one receiving the
// result of its predecessor.
type Hooks struct {
	PreTokenize   []SourceHook // before matching
	PreNormalize  []NodeHook   // before trimming and paragraph wrapping
	PostNormalize []NodeHook   // after trimming and paragraph wrapping
	PostTokenize  []NodeHook   // after break normalization
}

func runSourceHooks(hooks []SourceHook, src string) string {
	for _, h := range hooks {
		src = h(src)
	}
	return src
}

func runNodeHooks(hooks []NodeHook, nodes []*tree.Node, opts tree.Options) []*tree.Node {
	for _, h := range hooks {
		nodes = h(nodes, opts)
	}
	return nodes
}
