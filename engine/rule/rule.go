package rule

import (
	"fmt"

	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/mdkit/engine/tree"
)

// ParseFunc parses a construct at the start of src. It returns nil for no
// match. Result.Raw must be a non-empty prefix of src.
type ParseFunc func(rc *Context, src string) (*Result, error)

// RenderFunc renders a node from its already rendered children.
type RenderFunc func(rc *Context, r Rendering) (string, error)

// InitFunc computes a rule-private value once per render pass.
type InitFunc func(rc *Context) (interface{}, error)

// Rule is a grammar rule.
type Rule struct {
	Name     string
	Level    tree.Level
	Priority option.IntT // unset: ranks below every rule with a priority
	Start    Matcher
	Parse    ParseFunc
	Render   RenderFunc
	Init     InitFunc // optional
}

// Key identifies a rule within a registry.
type Key struct {
	Level tree.Level
	Name  string
}

func (k Key) String() string {
	return k.Level.String() + "/" + k.Name
}

// Key returns the registry key of r.
func (r *Rule) Key() Key {
	return Key{Level: r.Level, Name: r.Name}
}

func (r *Rule) String() string {
	prio := option.Safe(r.Priority.Match(option.Maybe{
		option.None: "-",
		option.Some: func(p interface{}) (interface{}, error) {
			return p.(option.IntT).String(), nil
		},
	}))
	return fmt.Sprintf("%s[prio=%v, start=%s]", r.Key(), prio, r.Start)
}

// Result is the outcome of a successful parse.
type Result struct {
	Raw      string        // consumed prefix of the parse input
	Data     interface{}   // rule-private
	Children *tree.Request // inline and block rules only
}

// Rendering is the input to a render call.
type Rendering struct {
	Node     *tree.Node
	Children tree.Rendered // in the shape of the node's child request
}

// Child returns the rendered children as one string.
func (r Rendering) Child() string {
	if r.Node.Children == nil {
		return ""
	}
	return tree.Join(r.Children)
}

// validate checks the structure of r.
func (r *Rule) validate() error {
	fail := func(field, msg string) error {
		return &ValidationError{Field: field, Rule: r.Name, Level: r.Level, Message: msg}
	}
	switch {
	case !r.Level.Valid():
		return fail("level", "must be one of atomic, inline or block")
	case r.Name == "":
		return fail("name", "must not be empty")
	case r.Start.variants() != 1:
		return fail("start", "must be exactly one of literal, pattern or function")
	case r.Parse == nil:
		return fail("parse", "must be present")
	case r.Render == nil:
		return fail("render", "must be present")
	}
	return nil
}
