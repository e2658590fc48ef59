/*
Package option implements optional values and a small matching facility
for them.

Grammar rules carry an optional numeric priority; an unset priority has
to be distinguishable from a priority of 0, and the zero value of IntT
is the unset state.

	prio := option.SomeInt(5)
	label, _ := prio.Match(option.Maybe{
		option.None: "no priority",
		option.Some: func(v interface{}) (interface{}, error) { … },
	})

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package option

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mdkit.core'.
func tracer() tracing.Trace {
	return tracing.Select("mdkit.core")
}
