/*
Package rule defines grammar rules and the registries holding them.

A rule is a unit of grammar for one named construct at one level (block,
inline or atomic). It knows how to find candidate start offsets in a text
(Start), how to parse a construct at such an offset (Parse) and how to
render a parsed node to markup (Render). Rules may declare a one-time
initializer, run once per render pass.

Rules are collected in a Registry, keyed by level and name. Registering a
rule under an existing key replaces the old rule. Registries may be
composed, with later registries overriding earlier ones:

	reg := rule.Compose(defaults, instanceRules)

For a render pass, a snapshot of a registry is bound to the pass state by
a Binder. The binder orders the rules of each level for matching and hands
out a rule Context for every rule, which is the only way rules reach the
pass state.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rule

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("mdkit.rules")
}
