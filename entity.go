package loom

// EntityHandle is the public, copyable reference to an entity: a slot in
// the owning Universe's entity arena plus the generation that was current
// when the handle was issued. A handle whose generation no longer matches
// the slot's current generation refers to a destroyed (or never-existing)
// entity — Valid reports this in O(1) without touching the arena's freelist.
type EntityHandle struct {
	universe   *Universe
	slot       Handle
	generation uint32
}

// ID derives a single stable integer identity for the entity: the
// generation times a fixed 2^32 slot space, plus the flat slot index
// (block times the entity arena's block size, plus index). Generation
// occupies the high bits so two different generations occupying the same
// slot never collide.
func (e EntityHandle) ID() uint64 {
	const slotSpace = 1 << 32
	blockSize := Config.EntityBlockSize
	if e.universe != nil {
		blockSize = e.universe.entities.blockSize
	}
	flat := uint64(e.slot.Block)*uint64(blockSize) + uint64(e.slot.Index)
	return uint64(e.generation)*slotSpace + flat
}

// Universe returns the Universe that issued this handle.
func (e EntityHandle) Universe() *Universe {
	return e.universe
}

// Valid reports whether the handle still refers to a live entity: its slot
// must be occupied and its generation must match the slot's current one.
func (e EntityHandle) Valid() bool {
	if e.universe == nil {
		return false
	}
	return e.universe.valid(e)
}

// entityData is the arena-resident record behind an EntityHandle: which
// archetype it currently belongs to, the dense vector of per-component
// arena handles (ordered per the archetype's position table), and the
// slot's generation at the time the entity was created. Destroy wipes the
// record and bumps the Universe's per-slot generation counter, so a later
// occupant of the slot carries a newer generation and stale EntityHandles
// fail Valid instead of aliasing it.
type entityData struct {
	metadata   *ArchetypeMetadata
	components []Handle
	generation uint32
	alive      bool
}
