/*
Package pass holds the state shared by all rules during one render pass.

A State is created once per render call and threaded through every rule
operation. It bundles an anchor registry for unique heading ids, a
table-of-contents builder and a word/character counter. Rules reach it
through their rule context; the engine itself never inspects it.

A pass is single-threaded: no two rule operations run concurrently, so
none of the types in this package synchronize access.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pass

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("mdkit.pass")
}
