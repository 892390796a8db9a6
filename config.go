package loom

// Config holds global tunables for arena layout and bus/stack capacity.
//
// The entity and component figures mirror the defaults carried over from
// the system this library replaces: 8192-element blocks for both arenas,
// a 1024-slot reuse delay for entities (to keep a just-destroyed slot from
// being handed back while stale handles might still reference it) and no
// reuse delay for components. No analysis justifies these exact numbers;
// they are tunables, not derived constants.
var Config config = config{
	ComponentTotal:     256,
	EntityBlockSize:    8192,
	EntityReuseC:       1024,
	ComponentBlockSize: 8192,
	ComponentReuseC:    0,
	ActionStackSize:    100,
}

type config struct {
	// ComponentTotal bounds how many distinct component types a Universe
	// may register before registration fails with ComponentCountExceededError.
	ComponentTotal int

	// EntityBlockSize is the block size of the per-Universe entity arena.
	EntityBlockSize int

	// EntityReuseC delays reuse of a freed entity slot until more than this
	// many slots are queued, so generation bumps stay observable.
	EntityReuseC int

	// ComponentBlockSize is the block size used for lazily-created
	// per-component arenas.
	ComponentBlockSize int

	// ComponentReuseC is the reuse delay for component arenas.
	ComponentReuseC int

	// ActionStackSize bounds how many actions an ActionStack retains.
	ActionStackSize int
}

// SetComponentTotal overrides the component budget. Must be called before
// any component type is registered; it has no effect on Universes already
// constructed.
func (c *config) SetComponentTotal(n int) {
	c.ComponentTotal = n
}

// SetEntityArenaLayout overrides the entity arena's block size and reuse delay.
func (c *config) SetEntityArenaLayout(blockSize, reuseC int) {
	c.EntityBlockSize = blockSize
	c.EntityReuseC = reuseC
}

// SetComponentArenaLayout overrides the per-component arena block size and
// reuse delay used for arenas created after the call.
func (c *config) SetComponentArenaLayout(blockSize, reuseC int) {
	c.ComponentBlockSize = blockSize
	c.ComponentReuseC = reuseC
}

// SetActionStackSize overrides the default capacity used by
// Factory.NewActionStack when called without an explicit size.
func (c *config) SetActionStackSize(n int) {
	c.ActionStackSize = n
}
