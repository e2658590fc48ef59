/*
Package parameters holds tokenize options in registers with TeX-like grouping.

Nested tokenize calls open a group, push the options their child-content
descriptor overrides, and close the group when done. Values not pushed
within a group are inherited from enclosing groups or the base registers.

	regs := parameters.NewRegisters(tree.DefaultOptions())
	regs.Begingroup()
	regs.Push(parameters.P_MAXLEVEL, tree.Inline)
	opts := regs.Options()
	regs.Endgroup()

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"

	"github.com/npillmayer/mdkit/engine/tree"
)

// TokenizeParameter is a key for a register.
type TokenizeParameter int

const (
	none TokenizeParameter = iota
	P_MAXLEVEL
	P_SKIPPARAWRAP
	P_LINEBREAK
	P_STOPPER
)

func (p TokenizeParameter) String() string {
	switch p {
	case P_MAXLEVEL:
		return "P_MAXLEVEL"
	case P_SKIPPARAWRAP:
		return "P_SKIPPARAWRAP"
	case P_LINEBREAK:
		return "P_LINEBREAK"
	}
	return fmt.Sprintf("TokenizeParameter(%d)", int(p))
}

type parameterGroup struct {
	params map[TokenizeParameter]interface{}
	level  int
	next   *parameterGroup
}

// Registers is a stack of parameter groups on top of base values.
// The zero value is not usable; create registers with NewRegisters.
type Registers struct {
	base       [P_STOPPER]interface{}
	groups     *parameterGroup
	grouplevel int
}

// NewRegisters creates registers with base values taken from opts.
func NewRegisters(opts tree.Options) *Registers {
	regs := &Registers{}
	regs.base[P_MAXLEVEL] = opts.MaxLevel
	regs.base[P_SKIPPARAWRAP] = opts.SkipParagraphWrapping
	regs.base[P_LINEBREAK] = opts.LineBreak
	return regs
}

// Begingroup opens a new group.
func (regs *Registers) Begingroup() {
	regs.grouplevel++
}

// Endgroup closes the innermost group and drops its values.
func (regs *Registers) Endgroup() {
	if regs.grouplevel == 0 {
		return
	}
	if regs.groups != nil && regs.groups.level == regs.grouplevel {
		regs.groups = regs.groups.next
	}
	regs.grouplevel--
}

// Level returns the current group nesting depth.
func (regs *Registers) Level() int {
	return regs.grouplevel
}

// Push sets a value in the innermost group, or in the base registers if no
// group is open.
func (regs *Registers) Push(key TokenizeParameter, value interface{}) {
	checkKey(key)
	if regs.grouplevel == 0 {
		regs.base[key] = value
		return
	}
	g := regs.groups
	if g == nil || g.level < regs.grouplevel {
		g = &parameterGroup{
			params: make(map[TokenizeParameter]interface{}),
			level:  regs.grouplevel,
			next:   regs.groups,
		}
		regs.groups = g
	}
	g.params[key] = value
}

// Get returns the innermost value for key.
func (regs *Registers) Get(key TokenizeParameter) interface{} {
	checkKey(key)
	for g := regs.groups; g != nil; g = g.next {
		if value, ok := g.params[key]; ok {
			return value
		}
	}
	return regs.base[key]
}

func checkKey(key TokenizeParameter) {
	if key <= none || key >= P_STOPPER {
		panic("parameter key outside range of tokenize parameters")
	}
}

// L returns a level parameter.
func (regs *Registers) L(key TokenizeParameter) tree.Level {
	return regs.Get(key).(tree.Level)
}

// B returns a boolean parameter.
func (regs *Registers) B(key TokenizeParameter) bool {
	return regs.Get(key).(bool)
}

// LB returns a line-break parameter.
func (regs *Registers) LB(key TokenizeParameter) tree.LineBreak {
	return regs.Get(key).(tree.LineBreak)
}

// PushOptions pushes all fields of opts.
func (regs *Registers) PushOptions(opts tree.Options) {
	regs.Push(P_MAXLEVEL, opts.MaxLevel)
	regs.Push(P_SKIPPARAWRAP, opts.SkipParagraphWrapping)
	regs.Push(P_LINEBREAK, opts.LineBreak)
}

// Options returns the current values as tokenize options.
func (regs *Registers) Options() tree.Options {
	return tree.Options{
		MaxLevel:              regs.L(P_MAXLEVEL),
		SkipParagraphWrapping: regs.B(P_SKIPPARAWRAP),
		LineBreak:             regs.LB(P_LINEBREAK),
	}
}
