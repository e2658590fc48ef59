package option

import (
	"errors"
	"strconv"
)

var ErrNoSuchMatchPattern = errors.New("no such match pattern")
var ErrCannotMatchUnsetValue = errors.New("cannot match unset value")
var ErrCannotMatchValue = errors.New("cannot match value")

type MaybeOption int

const (
	None MaybeOption = iota
	Some
	Error
)

// Maybe is a type used for matching of optional types.
// It will match `Some` if a value is set, `None` if it is unset, or `Error`
// if an error occurs.
type Maybe map[MaybeOption]interface{}

// Type is a type for optional values.
type Type interface {
	Match(choices interface{}) (interface{}, error)
	Equals(other interface{}) bool
	IsNone() bool
}

// Match will do a standard matching of o against choices.
// It may be used to create a new type of interface option.Type.
//
// choices are expected to be of type Maybe. Values of the map may be of
// any type, or a function computing the result from o.
//
// If choices is of unknown kind, nil and ErrNoSuchMatchPattern are returned.
func Match(o Type, choices interface{}) (value interface{}, err error) {
	if c, ok := choices.(Maybe); ok {
		return c.Match(o)
	}
	return nil, ErrNoSuchMatchPattern
}

// Match matches o against Some/None.
func (maybe Maybe) Match(o Type) (value interface{}, err error) {
	if o.IsNone() {
		if expr, ok := maybe[None]; ok {
			value, err = valueOrExpr(expr, o, None)
		} else {
			err = ErrCannotMatchUnsetValue
		}
	} else {
		if expr, ok := maybe[Some]; ok {
			value, err = valueOrExpr(expr, o, Some)
		} else {
			err = ErrCannotMatchValue
		}
		if err != nil {
			tracer().Debugf("option match: %v", err)
			if expr, ok := maybe[Error]; ok {
				value, err = valueOrExpr(expr, o, Error)
			}
		}
	}
	return value, err
}

func valueOrExpr(op interface{}, value Type, t MaybeOption) (interface{}, error) {
	switch x := op.(type) {
	case func(interface{}, MaybeOption) (interface{}, error):
		return x(value, t)
	case func(interface{}) (interface{}, error):
		return x(value)
	}
	return op, nil
}

// Safe wraps a Match's return values and drops the error value.
func Safe(x interface{}, err error) interface{} {
	return x
}

// --- IntT ------------------------------------------------------------------

// IntT is an option type for int. The zero value is unset.
type IntT struct {
	value int
	set   bool
}

// SomeInt creates an optional int with an initial value of x.
func SomeInt(x int) IntT {
	return IntT{value: x, set: true}
}

// Int creates an optional int without a value.
func Int() IntT {
	return IntT{}
}

func (o IntT) Match(choices interface{}) (value interface{}, err error) {
	return Match(o, choices)
}

// Equals compares o to plain integers and to other IntT values.
func (o IntT) Equals(other interface{}) bool {
	switch i := other.(type) {
	case IntT:
		return o == i
	case int:
		return o.set && o.value == i
	case int64:
		return o.set && int64(o.value) == i
	case int32:
		return o.set && int64(o.value) == int64(i)
	}
	return false
}

// Unwrap returns the value of o, or 0 if o is unset.
func (o IntT) Unwrap() int {
	return o.value
}

// IsNone returns true if o is unset.
func (o IntT) IsNone() bool {
	return !o.set
}

func (o IntT) String() string {
	if o.IsNone() {
		return "Int.None"
	}
	return strconv.Itoa(o.value)
}

var _ Type = IntT{}
