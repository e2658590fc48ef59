/*
Package builtin provides the default Markdown grammar.

The rules in this package are ordinary rules, registered like any third-party
rule. They implement a pragmatic subset of CommonMark and GitHub Flavored
Markdown:

	block:  code-fence, code-indent, math-block, thematic-break, heading,
	        blockquote, table, footnote-def, link-definition, ordered-list,
	        unordered-list, blank-line, paragraph
	inline: strong, emphasis, strikethrough, link, link-reference, image,
	        image-reference
	atomic: escape, code-span, math-inline, footnote-ref, autolink,
	        hard-break, line-break, text

Block rules carry priorities, with fences and code blocks first. Inline and
atomic rules have none and compete by start offset only.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package builtin

import (
	"github.com/npillmayer/mdkit/engine/rule"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.rules")
}

// Rule names.
const (
	CodeFence      = "code-fence"
	CodeIndent     = "code-indent"
	MathBlock      = "math-block"
	ThematicBreak  = "thematic-break"
	Heading        = "heading"
	Blockquote     = "blockquote"
	Table          = "table"
	FootnoteDef    = "footnote-def"
	LinkDefinition = "link-definition"
	OrderedList    = "ordered-list"
	UnorderedList  = "unordered-list"
	BlankLine      = "blank-line"
	Paragraph      = "paragraph"
	Strong         = "strong"
	Emphasis       = "emphasis"
	Strikethrough  = "strikethrough"
	Link           = "link"
	LinkReference  = "link-reference"
	Image          = "image"
	ImageReference = "image-reference"
	Escape         = "escape"
	CodeSpan       = "code-span"
	MathInline     = "math-inline"
	FootnoteRef    = "footnote-ref"
	Autolink       = "autolink"
	HardBreak      = "hard-break"
	LineBreak      = "line-break"
	Text           = "text"
)

// Rules returns fresh instances of all default rules.
func Rules() []*rule.Rule {
	rules := BlockRules()
	rules = append(rules, InlineRules()...)
	return append(rules, AtomicRules()...)
}

// BlockRules returns the default block rules.
func BlockRules() []*rule.Rule {
	return []*rule.Rule{
		codeFence(), codeIndent(), mathBlock(), thematicBreak(), heading(),
		blockquote(), table(), footnoteDef(), linkDefinition(),
		orderedList(), unorderedList(), blankLine(), paragraph(),
	}
}

// InlineRules returns the default inline rules.
func InlineRules() []*rule.Rule {
	return []*rule.Rule{
		strong(), emphasis(), strikethrough(), link(), linkReference(),
		image(), imageReference(),
	}
}

// AtomicRules returns the default atomic rules.
func AtomicRules() []*rule.Rule {
	return []*rule.Rule{
		escape(), codeSpan(), mathInline(), footnoteRef(), autolink(),
		hardBreak(), lineBreak(), text(),
	}
}

func noParse(*rule.Context, string) (*rule.Result, error) {
	return nil, nil
}
