package loom

// factory implements the factory pattern for loom's top-level types, the
// same shape the library this one replaces uses for its own constructors.
type factory struct{}

// Factory is the global factory instance for creating loom components.
var Factory factory

// NewUniverse creates a new, empty Universe using Config's current layout.
func (f factory) NewUniverse() *Universe {
	return NewUniverse()
}

// NewActionStack creates an ActionStack bounded to Config.ActionStackSize.
func (f factory) NewActionStack() *ActionStack {
	return NewActionStack(Config.ActionStackSize)
}

// NewInstantiationRegistry creates an InstantiationRegistry bounded to cap
// distinct identifiers.
func (f factory) NewInstantiationRegistry(cap int) *InstantiationRegistry {
	return NewInstantiationRegistry(cap)
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) Cache[T] {
	return NewSimpleCache[T](cap)
}

// FactoryNewSignal creates a new Signal[P].
func FactoryNewSignal[P any]() *Signal[P] {
	return NewSignal[P]()
}

// FactoryNewRequest creates a new Request[P, R].
func FactoryNewRequest[P any, R any]() *Request[P, R] {
	return NewRequest[P, R]()
}
