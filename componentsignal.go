package loom

// componentEmitter holds the lazily-constructed added/removed Signal pair
// for one component type. Universe keeps these type-erased in a map keyed
// by component index so it never needs to know every component type up
// front.
type componentEmitter[C any] struct {
	added   *Signal[EntityHandle]
	removed *Signal[EntityHandle]
}

func newComponentEmitter[C any]() *componentEmitter[C] {
	return &componentEmitter[C]{added: NewSignal[EntityHandle](), removed: NewSignal[EntityHandle]()}
}

// ComponentAdded returns the Signal fired whenever Add attaches a component
// of type C to an entity in u, creating it on first use. Components that
// arrive through Copy, CheckedCopy or CreateMany's copies do not fire it.
func ComponentAdded[C any](u *Universe) *Signal[EntityHandle] {
	return componentEmitterFor[C](u).added
}

// ComponentRemoved returns the Signal fired whenever Remove detaches a
// component of type C from an entity in u, creating it on first use.
// Components released by Destroy do not fire it.
func ComponentRemoved[C any](u *Universe) *Signal[EntityHandle] {
	return componentEmitterFor[C](u).removed
}

func componentEmitterFor[C any](u *Universe) *componentEmitter[C] {
	idx, err := componentIndex[C](u)
	if err != nil {
		panic(err)
	}
	if u.emitters == nil {
		u.emitters = make(map[int]any)
	}
	if existing, ok := u.emitters[idx]; ok {
		return existing.(*componentEmitter[C])
	}
	emitter := newComponentEmitter[C]()
	u.emitters[idx] = emitter
	return emitter
}

// notifyAdded fires idx's added signal, if anyone ever asked for it.
func (u *Universe) notifyAdded(idx int, e EntityHandle) {
	emitter, ok := u.emitters[idx]
	if !ok {
		return
	}
	if em, ok := emitter.(interface{ emitAdded(EntityHandle) }); ok {
		em.emitAdded(e)
	}
}

func (em *componentEmitter[C]) emitAdded(e EntityHandle)   { em.added.Emit(e) }
func (em *componentEmitter[C]) emitRemoved(e EntityHandle) { em.removed.Emit(e) }

// notifyRemoved fires idx's removed signal, if anyone ever asked for it.
func (u *Universe) notifyRemoved(idx int, e EntityHandle) {
	emitter, ok := u.emitters[idx]
	if !ok {
		return
	}
	if em, ok := emitter.(interface{ emitRemoved(EntityHandle) }); ok {
		em.emitRemoved(e)
	}
}
