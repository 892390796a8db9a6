/*
Package loom provides an Entity-Component-System (ECS) core: a chunked
arena allocator, an archetype-indexed entity Universe, a re-entrant signal
bus and a bounded undo/redo action stack.

Entities with the same component set share one ArchetypeMetadata, whose
position table locates each component's handle in the entity's handle
vector. Components live in their own per-type ChunkedArena, allocated lazily
the first time that type is used. Iterate1..Iterate4 walk a caller-supplied
entity slice and look up each entity's components through that table.

Basic Usage:

	universe := loom.Factory.NewUniverse()

	set := loom.NewComponentSet()
	loom.SetComponent(set, Position{X: 1, Y: 2})
	loom.SetComponent(set, Velocity{X: 0, Y: 1})

	entity, _ := universe.Create(set)

	loom.Iterate2(universe, universe.AllEntities(), func(e loom.EntityHandle, pos *Position, vel *Velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	})

Loom also exposes Signal/Request for re-entrant pub/sub, ActionStack for
bounded undo/redo, and InstantiationRegistry for building entities from a
named, reusable schema.
*/
package loom
