package loom

import "reflect"

// ComponentSelector names an explicit set of component types, the builder
// stand-in for the source's copy<C...>/checked_copy<C...> type-argument
// list: Universe.Copy and Universe.CheckedCopy restrict a deep copy to
// exactly the types listed here.
type ComponentSelector struct {
	types []reflect.Type
}

// NewComponentSelector returns an empty ComponentSelector.
func NewComponentSelector() *ComponentSelector {
	return &ComponentSelector{}
}

// Select adds C to sel's type list and returns sel so calls can be chained.
func Select[C any](sel *ComponentSelector) *ComponentSelector {
	sel.types = append(sel.types, reflect.TypeFor[C]())
	return sel
}

// ComponentSet accumulates component values to attach to an entity at
// creation time. Universe.Create applies them one at a time, in order; if
// one fails, the components applied before it stay on the entity. It
// stands in for the source's variadic
// template component pack: Go has no variadic generics, so the set is
// built up one SetComponent call at a time instead of named in one
// type argument list.
type ComponentSet struct {
	thunks []func(u *Universe, e EntityHandle) error
}

// NewComponentSet returns an empty ComponentSet.
func NewComponentSet() *ComponentSet {
	return &ComponentSet{}
}

// SetComponent records value to be attached via Add[C] when the set is
// applied by Universe.Create, and returns set so calls can be chained.
func SetComponent[C any](set *ComponentSet, value C) *ComponentSet {
	set.thunks = append(set.thunks, func(u *Universe, e EntityHandle) error {
		return Add[C](e, value)
	})
	return set
}
