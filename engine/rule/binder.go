package rule

import (
	"context"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/engine/pass"
	"github.com/npillmayer/mdkit/engine/tree"
)

// Binder binds the rules of a snapshot to the state of one render pass.
type Binder struct {
	ctx    context.Context
	state  *pass.State
	levels [levelCount]levelView
}

type levelView struct {
	byName  map[string]*Context
	ordered []*Rule
}

// BindOption configures a binder.
type BindOption func(*bindConfig)

type bindConfig struct {
	initValues map[Key]interface{}
}

// WithInitValues supplies precomputed init values. Rules with a value in
// values are not initialized again.
func WithInitValues(values map[Key]interface{}) BindOption {
	return func(c *bindConfig) {
		c.initValues = values
	}
}

// NewBinder binds snap to a pass state. Every rule initializer runs once,
// level by level from block to atomic and in matching order within a level.
// An initializer error aborts binding.
func NewBinder(ctx context.Context, snap *Snapshot, state *pass.State, opts ...BindOption) (*Binder, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := bindConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &Binder{ctx: ctx, state: state}
	for _, level := range tree.LevelsFrom(tree.Block) {
		view := levelView{byName: make(map[string]*Context)}
		view.ordered = order(snap.Rules(level))
		for _, r := range view.ordered {
			rc := newContext(ctx, r, state)
			if r.Init != nil {
				if v, ok := cfg.initValues[r.Key()]; ok {
					rc.value = v
				} else {
					v, err := r.Init(rc)
					if err != nil {
						return nil, core.WrapError(err, core.ERULE, "initializing rule %s", r.Key())
					}
					rc.value = v
				}
			}
			view.byName[r.Name] = rc
		}
		b.levels[level] = view
	}
	tracer().Debugf("pass %s: bound %d block, %d inline, %d atomic rules", state.ID,
		len(b.levels[tree.Block].ordered), len(b.levels[tree.Inline].ordered),
		len(b.levels[tree.Atomic].ordered))
	return b, nil
}

// Lookup returns a rule and its context.
func (b *Binder) Lookup(level tree.Level, name string) (*Rule, *Context, error) {
	if !level.Valid() {
		return nil, nil, core.WrapError(ErrUnknownLevel, core.EINVALID, "lookup of %s/%s", level, name)
	}
	rc, ok := b.levels[level].byName[name]
	if !ok {
		return nil, nil, core.WrapError(&LookupError{Level: level, Name: name}, core.EMISSING,
			"no rule found for %s/%s", level, name)
	}
	return rc.rule, rc, nil
}

// Rules returns the rules of a level in matching order.
func (b *Binder) Rules(level tree.Level) ([]*Rule, error) {
	if !level.Valid() {
		return nil, core.WrapError(ErrUnknownLevel, core.EINVALID, "rules of %s", level)
	}
	return b.levels[level].ordered, nil
}

// State returns the pass state.
func (b *Binder) State() *pass.State { return b.state }

// Ctx returns the context.Context of the pass.
func (b *Binder) Ctx() context.Context { return b.ctx }

// InitValues returns the init values of all rules having an initializer.
// They may be handed to another binder for the same source with
// WithInitValues.
func (b *Binder) InitValues() map[Key]interface{} {
	values := make(map[Key]interface{})
	for _, view := range b.levels {
		for _, rc := range view.byName {
			if rc.rule.Init != nil {
				values[rc.rule.Key()] = rc.value
			}
		}
	}
	return values
}

// order sorts rules for matching.
func order(rules []*Rule) []*Rule {
	set := treeset.NewWith(CompareRules)
	for _, r := range rules {
		set.Add(r)
	}
	ordered := make([]*Rule, 0, len(rules))
	for _, v := range set.Values() {
		ordered = append(ordered, v.(*Rule))
	}
	return ordered
}

// CompareRules is the matching order of rules as a gods comparator: rules
// with a priority come first, by priority descending. Ties are broken by
// name, descending.
func CompareRules(a, b interface{}) int {
	r1, r2 := a.(*Rule), b.(*Rule)
	p1, p2 := r1.Priority, r2.Priority
	switch {
	case !p1.IsNone() && p2.IsNone():
		return -1
	case p1.IsNone() && !p2.IsNone():
		return 1
	case !p1.IsNone() && p1.Unwrap() != p2.Unwrap():
		if p1.Unwrap() > p2.Unwrap() {
			return -1
		}
		return 1
	}
	return -strings.Compare(r1.Name, r2.Name)
}
