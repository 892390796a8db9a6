package loom

// EntityInstantiation builds one kind of entity against a ComponentSet,
// the Go stand-in for the source's string-identified EntityInstantiation
// schema objects: rather than subclassing a base with virtual Instantiate/
// Clone/Cleanup methods, a value satisfying this interface is registered
// once under a unique identifier and invoked by that identifier afterward.
type EntityInstantiation interface {
	// Identifier names this instantiation uniquely within its registry.
	Identifier() string

	// Build populates set with the instantiation's components.
	Build(set *ComponentSet)
}

// InstantiationRegistry maps identifiers to EntityInstantiation values and
// spawns entities from them. Registration enforces identifier uniqueness:
// two instantiations sharing an identifier is a configuration error, not a
// silent overwrite.
type InstantiationRegistry struct {
	cache Cache[EntityInstantiation]
}

// NewInstantiationRegistry returns a registry bounded to cap distinct
// identifiers.
func NewInstantiationRegistry(cap int) *InstantiationRegistry {
	return &InstantiationRegistry{cache: NewSimpleCache[EntityInstantiation](cap)}
}

// Register binds inst under its own Identifier(). It returns
// DuplicateIdentifierError if that identifier is already bound.
func (r *InstantiationRegistry) Register(inst EntityInstantiation) error {
	_, err := r.cache.Register(inst.Identifier(), inst)
	return err
}

// Lookup returns the instantiation bound to identifier, if any.
func (r *InstantiationRegistry) Lookup(identifier string) (EntityInstantiation, bool) {
	idx, ok := r.cache.GetIndex(identifier)
	if !ok {
		return nil, false
	}
	return *r.cache.GetItem(idx), true
}

// Spawn looks up identifier, runs its Build against a fresh ComponentSet,
// and creates the resulting entity in u.
func (r *InstantiationRegistry) Spawn(u *Universe, identifier string) (EntityHandle, error) {
	inst, ok := r.Lookup(identifier)
	if !ok {
		return EntityHandle{}, InstantiationNotFoundError{Identifier: identifier}
	}
	set := NewComponentSet()
	inst.Build(set)
	return u.Create(set)
}
