package loom

import "reflect"

// Iterate1 calls fn once per entity in entities that still carries a
// component of type A, passing a live pointer into that component's arena
// slot. Structural changes fn makes through Add/Remove/Destroy are queued
// until Iterate1 returns.
func Iterate1[A any](u *Universe, entities []EntityHandle, fn func(EntityHandle, *A)) error {
	idxA, ok := u.registry.lookup(reflect.TypeFor[A]())
	if !ok {
		return nil
	}
	arenaA := arenaFor[A](u, idxA)
	bit := u.beginIterate()
	defer u.endIterate(bit)
	for _, e := range entities {
		if !e.Valid() {
			continue
		}
		data := u.entities.Get(e.slot)
		posA, ok := data.metadata.PositionOf(idxA)
		if !ok {
			continue
		}
		fn(e, arenaA.Get(data.components[posA]))
	}
	return nil
}

// Iterate2 is Iterate1 generalized to entities carrying both A and B.
func Iterate2[A, B any](u *Universe, entities []EntityHandle, fn func(EntityHandle, *A, *B)) error {
	idxA, okA := u.registry.lookup(reflect.TypeFor[A]())
	idxB, okB := u.registry.lookup(reflect.TypeFor[B]())
	if !okA || !okB {
		return nil
	}
	arenaA := arenaFor[A](u, idxA)
	arenaB := arenaFor[B](u, idxB)
	bit := u.beginIterate()
	defer u.endIterate(bit)
	for _, e := range entities {
		if !e.Valid() {
			continue
		}
		data := u.entities.Get(e.slot)
		posA, ok := data.metadata.PositionOf(idxA)
		if !ok {
			continue
		}
		posB, ok := data.metadata.PositionOf(idxB)
		if !ok {
			continue
		}
		fn(e, arenaA.Get(data.components[posA]), arenaB.Get(data.components[posB]))
	}
	return nil
}

// Iterate3 is Iterate1 generalized to entities carrying A, B and C.
func Iterate3[A, B, C any](u *Universe, entities []EntityHandle, fn func(EntityHandle, *A, *B, *C)) error {
	idxA, okA := u.registry.lookup(reflect.TypeFor[A]())
	idxB, okB := u.registry.lookup(reflect.TypeFor[B]())
	idxC, okC := u.registry.lookup(reflect.TypeFor[C]())
	if !okA || !okB || !okC {
		return nil
	}
	arenaA := arenaFor[A](u, idxA)
	arenaB := arenaFor[B](u, idxB)
	arenaC := arenaFor[C](u, idxC)
	bit := u.beginIterate()
	defer u.endIterate(bit)
	for _, e := range entities {
		if !e.Valid() {
			continue
		}
		data := u.entities.Get(e.slot)
		posA, ok := data.metadata.PositionOf(idxA)
		if !ok {
			continue
		}
		posB, ok := data.metadata.PositionOf(idxB)
		if !ok {
			continue
		}
		posC, ok := data.metadata.PositionOf(idxC)
		if !ok {
			continue
		}
		fn(e, arenaA.Get(data.components[posA]), arenaB.Get(data.components[posB]), arenaC.Get(data.components[posC]))
	}
	return nil
}

// Iterate4 is Iterate1 generalized to entities carrying A, B, C and D.
func Iterate4[A, B, C, D any](u *Universe, entities []EntityHandle, fn func(EntityHandle, *A, *B, *C, *D)) error {
	idxA, okA := u.registry.lookup(reflect.TypeFor[A]())
	idxB, okB := u.registry.lookup(reflect.TypeFor[B]())
	idxC, okC := u.registry.lookup(reflect.TypeFor[C]())
	idxD, okD := u.registry.lookup(reflect.TypeFor[D]())
	if !okA || !okB || !okC || !okD {
		return nil
	}
	arenaA := arenaFor[A](u, idxA)
	arenaB := arenaFor[B](u, idxB)
	arenaC := arenaFor[C](u, idxC)
	arenaD := arenaFor[D](u, idxD)
	bit := u.beginIterate()
	defer u.endIterate(bit)
	for _, e := range entities {
		if !e.Valid() {
			continue
		}
		data := u.entities.Get(e.slot)
		posA, ok := data.metadata.PositionOf(idxA)
		if !ok {
			continue
		}
		posB, ok := data.metadata.PositionOf(idxB)
		if !ok {
			continue
		}
		posC, ok := data.metadata.PositionOf(idxC)
		if !ok {
			continue
		}
		posD, ok := data.metadata.PositionOf(idxD)
		if !ok {
			continue
		}
		fn(e,
			arenaA.Get(data.components[posA]),
			arenaB.Get(data.components[posB]),
			arenaC.Get(data.components[posC]),
			arenaD.Get(data.components[posD]),
		)
	}
	return nil
}
