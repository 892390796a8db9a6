package loom

import (
	"reflect"
	"sort"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// Universe owns one entity arena, one lazily-populated arena per registered
// component type, and the archetype table shared across every entity it
// holds. A Universe is not safe for concurrent use from multiple goroutines
// without external synchronization — exactly like the source, which was
// always driven from a single update loop.
type Universe struct {
	registry   *componentRegistry
	archetypes *archetypeTable
	empty      *ArchetypeMetadata

	entities *ChunkedArena[entityData]
	entityGen []uint32

	componentArenas  map[int]arenaManager
	componentCopiers map[int]func(Handle) Handle

	emitters map[int]any

	iterLock  mask.Mask256
	iterCount uint32
	pending   []func()
}

// NewUniverse constructs an empty Universe using Config's current arena
// layout and component budget.
func NewUniverse() *Universe {
	u := &Universe{
		registry:         newComponentRegistry(Config.ComponentTotal),
		archetypes:       newArchetypeTable(),
		entities:         NewChunkedArena[entityData](Config.EntityBlockSize, Config.EntityReuseC),
		componentArenas:  make(map[int]arenaManager),
		componentCopiers: make(map[int]func(Handle) Handle),
	}
	u.empty = u.archetypes.metadataFor(nil)
	return u
}

func (u *Universe) flatIndex(h Handle) int {
	return int(h.Block)*u.entities.blockSize + int(h.Index)
}

func (u *Universe) currentGeneration(h Handle) uint32 {
	i := u.flatIndex(h)
	if i >= len(u.entityGen) {
		return 0
	}
	return u.entityGen[i]
}

func (u *Universe) bumpGeneration(h Handle) uint32 {
	i := u.flatIndex(h)
	for i >= len(u.entityGen) {
		u.entityGen = append(u.entityGen, 0)
	}
	u.entityGen[i]++
	return u.entityGen[i]
}

func (u *Universe) valid(e EntityHandle) bool {
	if e.universe != u {
		return false
	}
	if e.slot.Block >= uint32(len(u.entities.blocks)) {
		return false
	}
	data := u.entities.Get(e.slot)
	return data.alive && data.generation == e.generation
}

// Create allocates a new entity starting from the empty archetype and runs
// set's accumulated component thunks against it in the order they were
// added to the set.
func (u *Universe) Create(set *ComponentSet) (EntityHandle, error) {
	empty := u.archetypes.metadataFor(nil)
	h := u.entities.Add(entityData{metadata: empty, alive: true})
	gen := u.currentGeneration(h)
	data := u.entities.Get(h)
	data.generation = gen
	empty.retain()
	e := EntityHandle{universe: u, slot: h, generation: gen}
	for _, thunk := range set.thunks {
		if err := thunk(u, e); err != nil {
			return EntityHandle{}, err
		}
	}
	return e, nil
}

// CreateMany allocates n entities. build runs once against a freshly
// created sample entity, then once more against each of the remaining n-1
// entities, each of which starts as a full structural and value copy of the
// sample taken immediately after build returned for it — so build sees the
// sample's post-build state as every copy's starting point, and may further
// customize each copy (e.g. by index-dependent fields) on top of it.
func (u *Universe) CreateMany(n int, build func(EntityHandle, int) error) ([]EntityHandle, error) {
	if n <= 0 {
		return nil, nil
	}
	sample, err := u.Create(NewComponentSet())
	if err != nil {
		return nil, err
	}
	if err := build(sample, 0); err != nil {
		return nil, err
	}
	handles := make([]EntityHandle, n)
	handles[0] = sample
	for i := 1; i < n; i++ {
		copied, err := u.copyAll(sample)
		if err != nil {
			return nil, err
		}
		if err := build(copied, i); err != nil {
			return nil, err
		}
		handles[i] = copied
	}
	return handles, nil
}

// copyAll allocates a new entity in e's archetype and deep-copies every
// component value e currently holds. Used internally by CreateMany, which
// has no explicit type list to restrict the copy to — every sample
// component is meant to seed its copies.
func (u *Universe) copyAll(e EntityHandle) (EntityHandle, error) {
	if !e.Valid() {
		return EntityHandle{}, EntityInvalidError{Entity: e}
	}
	src := u.entities.Get(e.slot)
	h := u.entities.Add(entityData{metadata: src.metadata, alive: true})
	gen := u.currentGeneration(h)
	dst := u.entities.Get(h)
	dst.generation = gen
	dst.components = make([]Handle, len(src.components))
	for _, idx := range src.metadata.components {
		pos, _ := src.metadata.PositionOf(idx)
		copier, ok := u.componentCopiers[idx]
		if !ok {
			bark.AddTrace(ComponentMissingError{Entity: e, Component: u.registry.typeAt(idx)})
			panic(ComponentMissingError{Entity: e, Component: u.registry.typeAt(idx)})
		}
		dst.components[pos] = copier(src.components[pos])
	}
	src.metadata.retain()
	return EntityHandle{universe: u, slot: h, generation: gen}, nil
}

// Copy creates a new entity sharing e's archetype restricted to sel's
// listed types, deep-copying each one's value from e. Every type named in
// sel must be present on e; if any isn't, Copy returns
// ComponentMissingError and allocates nothing. Use CheckedCopy to skip
// absent types instead of failing.
func (u *Universe) Copy(e EntityHandle, sel *ComponentSelector) (EntityHandle, error) {
	return u.copySelected(e, sel, false)
}

// CheckedCopy is Copy, but a type named in sel that e does not carry is
// silently skipped instead of causing an error.
func (u *Universe) CheckedCopy(e EntityHandle, sel *ComponentSelector) (EntityHandle, error) {
	return u.copySelected(e, sel, true)
}

func (u *Universe) copySelected(e EntityHandle, sel *ComponentSelector, skipMissing bool) (EntityHandle, error) {
	if !e.Valid() {
		return EntityHandle{}, EntityInvalidError{Entity: e}
	}
	src := u.entities.Get(e.slot)

	components := make([]int, 0, len(sel.types))
	for _, typ := range sel.types {
		idx, ok := u.registry.lookup(typ)
		if !ok || !src.metadata.Has(idx) {
			if skipMissing {
				continue
			}
			return EntityHandle{}, ComponentMissingError{Entity: e, Component: typ}
		}
		components = append(components, idx)
	}
	sort.Ints(components)

	meta := u.archetypes.metadataFor(components)
	h := u.entities.Add(entityData{metadata: meta, alive: true})
	gen := u.currentGeneration(h)
	dst := u.entities.Get(h)
	dst.generation = gen
	dst.components = make([]Handle, len(components))
	for _, idx := range components {
		srcPos, _ := src.metadata.PositionOf(idx)
		dstPos, _ := meta.PositionOf(idx)
		dst.components[dstPos] = u.componentCopiers[idx](src.components[srcPos])
	}
	meta.retain()
	return EntityHandle{universe: u, slot: h, generation: gen}, nil
}

// Destroy releases e's components back to their arenas, releases its
// archetype metadata, and bumps the slot's generation so outstanding copies
// of the handle fail Valid.
func (u *Universe) Destroy(e EntityHandle) error {
	if !e.Valid() {
		return EntityInvalidError{Entity: e}
	}
	run := func() {
		if !e.Valid() {
			return
		}
		data := u.entities.Get(e.slot)
		for _, idx := range data.metadata.components {
			pos, _ := data.metadata.PositionOf(idx)
			u.componentArenas[idx].destroy(data.components[pos])
		}
		u.archetypes.release(data.metadata)
		u.entities.Destroy(e.slot)
		u.bumpGeneration(e.slot)
	}
	u.queueOrRun(run)
	return nil
}

// Has reports whether e currently carries a component of type C.
func Has[C any](e EntityHandle) bool {
	u := e.universe
	if u == nil || !e.Valid() {
		return false
	}
	idx, ok := u.registry.lookup(reflect.TypeFor[C]())
	if !ok {
		return false
	}
	data := u.entities.Get(e.slot)
	return data.metadata.Has(idx)
}

// Get returns a copy of e's component of type C.
func Get[C any](e EntityHandle) (C, error) {
	var zero C
	u := e.universe
	if u == nil || !e.Valid() {
		return zero, EntityInvalidError{Entity: e}
	}
	typ := reflect.TypeFor[C]()
	idx, ok := u.registry.lookup(typ)
	if !ok {
		return zero, ComponentMissingError{Entity: e, Component: typ}
	}
	data := u.entities.Get(e.slot)
	pos, ok := data.metadata.PositionOf(idx)
	if !ok {
		return zero, ComponentMissingError{Entity: e, Component: typ}
	}
	arena := arenaFor[C](u, idx)
	return *arena.Get(data.components[pos]), nil
}

// Modify calls fn with a pointer to e's live component of type C, letting
// it be mutated in place without a copy round trip.
func Modify[C any](e EntityHandle, fn func(*C)) error {
	u := e.universe
	if u == nil || !e.Valid() {
		return EntityInvalidError{Entity: e}
	}
	typ := reflect.TypeFor[C]()
	idx, ok := u.registry.lookup(typ)
	if !ok {
		return ComponentMissingError{Entity: e, Component: typ}
	}
	data := u.entities.Get(e.slot)
	pos, ok := data.metadata.PositionOf(idx)
	if !ok {
		return ComponentMissingError{Entity: e, Component: typ}
	}
	arena := arenaFor[C](u, idx)
	fn(arena.Get(data.components[pos]))
	return nil
}

// Add attaches value to e, moving it to the archetype that includes C's
// index if it did not already carry one. If e already carries a C, Add is
// a silent no-op: the passed-in value is discarded and the existing one is
// left untouched, rather than overwriting it.
func Add[C any](e EntityHandle, value C) error {
	u := e.universe
	if u == nil || !e.Valid() {
		return EntityInvalidError{Entity: e}
	}
	idx, err := componentIndex[C](u)
	if err != nil {
		return err
	}
	arena := arenaFor[C](u, idx)
	data := u.entities.Get(e.slot)
	if data.metadata.Has(idx) {
		return nil
	}
	u.queueOrRun(func() {
		if !e.Valid() {
			return
		}
		data := u.entities.Get(e.slot)
		if data.metadata.Has(idx) {
			return
		}
		newHandle := arena.Add(value)
		u.transition(data, idx, newHandle)
		u.notifyAdded(idx, e)
	})
	return nil
}

// Remove detaches e's component of type C, moving it to the archetype
// without C's index. If e does not carry a C, Remove is a no-op and
// returns nil.
func Remove[C any](e EntityHandle) error {
	u := e.universe
	if u == nil || !e.Valid() {
		return EntityInvalidError{Entity: e}
	}
	typ := reflect.TypeFor[C]()
	idx, ok := u.registry.lookup(typ)
	if !ok {
		return nil
	}
	data := u.entities.Get(e.slot)
	if !data.metadata.Has(idx) {
		return nil
	}
	u.queueOrRun(func() {
		if !e.Valid() {
			return
		}
		data := u.entities.Get(e.slot)
		pos, ok := data.metadata.PositionOf(idx)
		if !ok {
			return
		}
		u.componentArenas[idx].destroy(data.components[pos])
		u.detransition(data, idx)
		u.notifyRemoved(idx, e)
	})
	return nil
}

// transition moves data into the archetype formed by adding newIdx, whose
// component arena slot has already been allocated as newHandle.
func (u *Universe) transition(data *entityData, newIdx int, newHandle Handle) {
	oldMeta := data.metadata
	newComponents := withComponent(oldMeta.components, newIdx)
	newMeta := u.archetypes.metadataFor(newComponents)
	newSlots := make([]Handle, len(newComponents))
	for _, idx := range oldMeta.components {
		oldPos, _ := oldMeta.PositionOf(idx)
		newPos, _ := newMeta.PositionOf(idx)
		newSlots[newPos] = data.components[oldPos]
	}
	newPos, _ := newMeta.PositionOf(newIdx)
	newSlots[newPos] = newHandle
	u.archetypes.release(oldMeta)
	newMeta.retain()
	data.metadata = newMeta
	data.components = newSlots
}

// detransition moves data into the archetype formed by removing goneIdx.
// The component's own arena slot must already have been destroyed by the
// caller.
func (u *Universe) detransition(data *entityData, goneIdx int) {
	oldMeta := data.metadata
	newComponents := withoutComponent(oldMeta.components, goneIdx)
	newMeta := u.archetypes.metadataFor(newComponents)
	newSlots := make([]Handle, len(newComponents))
	for _, idx := range oldMeta.components {
		if idx == goneIdx {
			continue
		}
		oldPos, _ := oldMeta.PositionOf(idx)
		newPos, _ := newMeta.PositionOf(idx)
		newSlots[newPos] = data.components[oldPos]
	}
	u.archetypes.release(oldMeta)
	newMeta.retain()
	data.metadata = newMeta
	data.components = newSlots
}

// arenaFor returns the arena for component type C at idx, lazily creating
// it (and registering its type-erased copier) on first use.
func arenaFor[C any](u *Universe, idx int) *ChunkedArena[C] {
	if existing, ok := u.componentArenas[idx]; ok {
		return existing.(*ChunkedArena[C])
	}
	arena := NewChunkedArena[C](Config.ComponentBlockSize, Config.ComponentReuseC)
	u.componentArenas[idx] = arena
	u.componentCopiers[idx] = func(h Handle) Handle {
		value := *arena.Get(h)
		return arena.Add(value)
	}
	return arena
}

// EntityCount returns the number of live entities in u.
func (u *Universe) EntityCount() int {
	return u.entities.Size()
}

// ComponentCount returns the number of live components of type C across
// every entity in u. Types never registered report zero rather than error.
func ComponentCount[C any](u *Universe) int {
	idx, ok := u.registry.lookup(reflect.TypeFor[C]())
	if !ok {
		return 0
	}
	arena, ok := u.componentArenas[idx]
	if !ok {
		return 0
	}
	return arena.size()
}

// AllEntities returns a handle for every currently live entity in u. The
// order is arena layout order, not creation order, once slots have been
// recycled.
func (u *Universe) AllEntities() []EntityHandle {
	var out []EntityHandle
	for b, block := range u.entities.blocks {
		for i := 0; i < block.endIndex; i++ {
			h := Handle{Block: uint32(b), Index: uint32(i)}
			data := &block.cells[i]
			if !data.alive {
				continue
			}
			out = append(out, EntityHandle{universe: u, slot: h, generation: u.currentGeneration(h)})
		}
	}
	return out
}

// Query filters entities down to those carrying every type in types. Types
// never registered on u match nothing.
func (u *Universe) Query(entities []EntityHandle, types ...reflect.Type) []EntityHandle {
	idxs := make([]int, 0, len(types))
	for _, t := range types {
		idx, ok := u.registry.lookup(t)
		if !ok {
			return nil
		}
		idxs = append(idxs, idx)
	}
	out := make([]EntityHandle, 0, len(entities))
	for _, e := range entities {
		if !e.Valid() {
			continue
		}
		data := u.entities.Get(e.slot)
		match := true
		for _, idx := range idxs {
			if !data.metadata.Has(idx) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// beginIterate marks a fresh bit in the iteration lock and returns it for
// the matching endIterate call. Structural mutations issued while the lock
// is non-empty are queued rather than applied immediately, so a callback
// driven by Iterate1..Iterate4 can freely Add/Remove/Destroy without
// invalidating the slice it is ranging over.
func (u *Universe) beginIterate() uint32 {
	bit := u.iterCount % 256
	u.iterCount++
	u.iterLock.Mark(bit)
	return bit
}

func (u *Universe) endIterate(bit uint32) {
	u.iterLock.Unmark(bit)
	if u.iterLock.IsEmpty() && len(u.pending) > 0 {
		pending := u.pending
		u.pending = nil
		for _, op := range pending {
			op()
		}
	}
}

func (u *Universe) queueOrRun(op func()) {
	if !u.iterLock.IsEmpty() {
		u.pending = append(u.pending, op)
		return
	}
	op()
}
