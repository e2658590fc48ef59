package rule

import (
	"context"

	"github.com/npillmayer/mdkit/engine/pass"
	"github.com/npillmayer/schuko/tracing"
)

// Context is the view of a render pass bound to one rule.
type Context struct {
	rule  *Rule
	value interface{}
	state *pass.State
	ctx   context.Context
	trace ScopedTracer
}

func newContext(ctx context.Context, r *Rule, state *pass.State) *Context {
	return &Context{
		rule:  r,
		state: state,
		ctx:   ctx,
		trace: ScopedTracer{Trace: tracer(), prefix: "[" + r.Key().String() + "] "},
	}
}

// Rule returns the rule this context is bound to.
func (rc *Context) Rule() *Rule { return rc.rule }

// Value returns the rule's init value, or nil if the rule has no initializer.
func (rc *Context) Value() interface{} { return rc.value }

// Anchors returns the anchor registry of the pass.
func (rc *Context) Anchors() *pass.Anchors { return rc.state.Anchors() }

// TOC returns the table-of-contents builder of the pass.
func (rc *Context) TOC() *pass.TOC { return rc.state.TOC() }

// Counter returns the word and character counter of the pass.
func (rc *Context) Counter() *pass.Counter { return rc.state.Counter() }

// Source returns the complete source text of the pass.
func (rc *Context) Source() string { return rc.state.Source }

// Ctx returns the context.Context of the pass, for rules doing blocking work.
func (rc *Context) Ctx() context.Context { return rc.ctx }

// Tracer returns a tracer which prefixes messages with the rule's key.
func (rc *Context) Tracer() ScopedTracer { return rc.trace }

// ScopedTracer is a tracing.Trace prefixing messages with a rule key.
type ScopedTracer struct {
	tracing.Trace
	prefix string
}

func (t ScopedTracer) Debugf(format string, args ...interface{}) {
	t.Trace.Debugf("%s"+format, append([]interface{}{t.prefix}, args...)...)
}

func (t ScopedTracer) Infof(format string, args ...interface{}) {
	t.Trace.Infof("%s"+format, append([]interface{}{t.prefix}, args...)...)
}

func (t ScopedTracer) Errorf(format string, args ...interface{}) {
	t.Trace.Errorf("%s"+format, append([]interface{}{t.prefix}, args...)...)
}
