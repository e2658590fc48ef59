/*
Package tokenizer turns source text into a document tree.

Tokenizing works level by level, from the coarsest level permitted by the
options down to atomic. At each level, the rules of the level are asked for
all offsets where they might start. Offsets are visited in ascending order,
and at each offset the candidate rules are tried in matching order; the
first rule returning a result wins and the text it consumed is skipped.
Text no rule at a level consumed (a gap) is handed down to the next finer
level. Gaps still unmatched at the atomic level become "text" nodes.

Rules may request child content. Each child is tokenized as a separate
sub-document, with the parent's options overridden by the request, and
never at a level coarser than the parent rule's level.

Finally the node sequence is normalized: leading and trailing line breaks
are trimmed, runs of non-block nodes are wrapped into paragraphs (unless
switched off), and soft and hard line breaks are resolved.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tokenizer

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("mdkit.engine")
}
