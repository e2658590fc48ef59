package rule

import (
	"sort"
	"sync"

	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/mdkit/engine/tree"
)

const levelCount = int(tree.Block) + 1

type ruleMaps [levelCount]map[string]*Rule

func newRuleMaps() ruleMaps {
	var m ruleMaps
	for i := range m {
		m[i] = make(map[string]*Rule)
	}
	return m
}

func (m ruleMaps) clone() ruleMaps {
	c := newRuleMaps()
	for i := range m {
		for name, r := range m[i] {
			c[i][name] = r
		}
	}
	return c
}

// Registry holds rules keyed by level and name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules ruleMaps
}

// NewRegistry creates a registry holding the seed rules.
func NewRegistry(seed ...*Rule) (*Registry, error) {
	reg := &Registry{rules: newRuleMaps()}
	if _, err := reg.Register(seed...); err != nil {
		return nil, err
	}
	return reg, nil
}

// MustRegistry is NewRegistry for statically known rules. It panics on error.
func MustRegistry(seed ...*Rule) *Registry {
	reg, err := NewRegistry(seed...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Register validates and inserts rules. A rule replaces a registered rule
// with the same level and name; overridden reports if this happened.
// If any rule is invalid, no rule is inserted.
//
// The registry keeps its own copy of each rule, so changing a rule after
// registering it has no effect on the registry.
func (reg *Registry) Register(rules ...*Rule) (overridden bool, err error) {
	for _, r := range rules {
		if r == nil {
			return false, core.Error(core.EINVALID, "cannot register nil rule")
		}
		if verr := r.validate(); verr != nil {
			return false, core.WrapError(verr, core.EINVALID, "invalid rule %q", r.Name)
		}
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range rules {
		if _, exists := reg.rules[r.Level][r.Name]; exists {
			tracer().Infof("rule %s overrides registered rule", r.Key())
			overridden = true
		}
		cp := *r
		reg.rules[r.Level][r.Name] = &cp
	}
	return overridden, nil
}

// Remove removes the rule registered for level and name.
func (reg *Registry) Remove(level tree.Level, name string) bool {
	if !level.Valid() {
		return false
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rules[level][name]; !ok {
		return false
	}
	delete(reg.rules[level], name)
	return true
}

// RemoveRules removes the rules registered under the keys of rules.
func (reg *Registry) RemoveRules(rules ...*Rule) bool {
	removed := false
	for _, r := range rules {
		if reg.Remove(r.Level, r.Name) {
			removed = true
		}
	}
	return removed
}

// Lookup returns the rule registered for level and name.
func (reg *Registry) Lookup(level tree.Level, name string) (*Rule, bool) {
	if !level.Valid() {
		return nil, false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rules[level][name]
	return r, ok
}

// Rules returns the rules of a level, sorted by name.
func (reg *Registry) Rules(level tree.Level) []*Rule {
	return reg.Snapshot().Rules(level)
}

// Len returns the number of rules over all levels.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	n := 0
	for _, m := range reg.rules {
		n += len(m)
	}
	return n
}

// Snapshot returns a copy of the registry contents, unaffected by later
// changes to the registry.
func (reg *Registry) Snapshot() *Snapshot {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return &Snapshot{rules: reg.rules.clone()}
}

// Compose creates a new registry from base, layering the rules of each
// override on top. Later registries win. No input registry is changed.
func Compose(base *Registry, overrides ...*Registry) *Registry {
	composed := &Registry{rules: newRuleMaps()}
	if base != nil {
		composed.rules = base.Snapshot().rules
	}
	for _, o := range overrides {
		if o == nil {
			continue
		}
		snap := o.Snapshot()
		for l := range snap.rules {
			for name, r := range snap.rules[l] {
				composed.rules[l][name] = r
			}
		}
	}
	return composed
}

// Snapshot is an immutable view of a registry's rules.
type Snapshot struct {
	rules ruleMaps
}

// Lookup returns the rule for level and name.
func (snap *Snapshot) Lookup(level tree.Level, name string) (*Rule, bool) {
	if !level.Valid() {
		return nil, false
	}
	r, ok := snap.rules[level][name]
	return r, ok
}

// Rules returns the rules of a level, sorted by name.
func (snap *Snapshot) Rules(level tree.Level) []*Rule {
	if !level.Valid() {
		return nil
	}
	rules := make([]*Rule, 0, len(snap.rules[level]))
	for _, r := range snap.rules[level] {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules
}
