package pass

import (
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"
)

// State is the render-pass state.
type State struct {
	ID      uuid.UUID // identifies the pass in traces
	Source  string    // complete source text of the pass
	anchors *Anchors
	toc     *TOC
	counter *Counter
}

// NewState creates the state for a pass over source.
func NewState(source string) *State {
	st := &State{
		ID:      uuid.New(),
		Source:  source,
		anchors: NewAnchors(),
		toc:     &TOC{},
		counter: NewCounter(),
	}
	tracer().Debugf("new render pass %s over %d bytes", st.ID, len(source))
	return st
}

// Anchors returns the anchor registry of the pass.
func (st *State) Anchors() *Anchors { return st.anchors }

// TOC returns the table-of-contents builder of the pass.
func (st *State) TOC() *TOC { return st.toc }

// Counter returns the word and character counter of the pass.
func (st *State) Counter() *Counter { return st.counter }

// Tracer returns the tracer for pass-level messages.
func (st *State) Tracer() tracing.Trace { return tracer() }
