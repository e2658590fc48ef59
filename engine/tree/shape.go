package tree

import "strings"

// Shape is either a single value or an ordered, possibly nested, list of
// shapes. The zero value is an empty list.
type Shape[T any] struct {
	value T
	items []Shape[T]
	leaf  bool
}

// Single creates a shape holding exactly one value.
func Single[T any](v T) Shape[T] {
	return Shape[T]{value: v, leaf: true}
}

// List creates a list shape of items.
func List[T any](items ...Shape[T]) Shape[T] {
	return Shape[T]{items: items}
}

// Values creates a flat list shape holding each of vs as a single.
func Values[T any](vs ...T) Shape[T] {
	items := make([]Shape[T], len(vs))
	for i, v := range vs {
		items[i] = Single(v)
	}
	return Shape[T]{items: items}
}

// IsList is true for list shapes.
func (s Shape[T]) IsList() bool {
	return !s.leaf
}

// Value returns the value of a single shape. For a list it returns the zero
// value and false.
func (s Shape[T]) Value() (T, bool) {
	return s.value, s.leaf
}

// Len returns the number of items of a list, or 1 for a single.
func (s Shape[T]) Len() int {
	if s.leaf {
		return 1
	}
	return len(s.items)
}

// At returns item i of a list. For a single, At(0) returns s itself.
func (s Shape[T]) At(i int) Shape[T] {
	if s.leaf {
		if i != 0 {
			panic("tree: shape index out of range")
		}
		return s
	}
	return s.items[i]
}

// Flatten returns all values of s in depth-first order.
func (s Shape[T]) Flatten() []T {
	if s.leaf {
		return []T{s.value}
	}
	var out []T
	for _, item := range s.items {
		out = append(out, item.Flatten()...)
	}
	return out
}

// MapShape maps every value of s with f, keeping the structure of s.
// Values are visited depth-first, in order; the first error stops mapping.
func MapShape[T, U any](s Shape[T], f func(T) (U, error)) (Shape[U], error) {
	if s.leaf {
		u, err := f(s.value)
		if err != nil {
			return Shape[U]{}, err
		}
		return Single(u), nil
	}
	items := make([]Shape[U], len(s.items))
	for i, item := range s.items {
		m, err := MapShape(item, f)
		if err != nil {
			return Shape[U]{}, err
		}
		items[i] = m
	}
	return List(items...), nil
}

// Request is the child-content request of a parse result.
type Request = Shape[Content]

// Children holds the child node sequences of an inline or block node.
type Children = Shape[Branch]

// Rendered holds rendered child markup, in the shape of the request.
type Rendered = Shape[string]

// Join concatenates all rendered values of r.
func Join(r Rendered) string {
	var b strings.Builder
	for _, s := range r.Flatten() {
		b.WriteString(s)
	}
	return b.String()
}
