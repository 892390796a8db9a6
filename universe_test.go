package loom

import (
	"reflect"
	"testing"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type label struct{ Name string }

func TestUniverseCreateAndGet(t *testing.T) {
	u := NewUniverse()

	set := NewComponentSet()
	SetComponent(set, position{X: 1, Y: 2})
	SetComponent(set, velocity{X: 3, Y: 4})

	e, err := u.Create(set)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !e.Valid() {
		t.Fatalf("fresh entity is not Valid")
	}

	pos, err := Get[position](e)
	if err != nil {
		t.Fatalf("Get position: %v", err)
	}
	if pos.X != 1 || pos.Y != 2 {
		t.Errorf("got position %+v, expected {1 2}", pos)
	}

	if !Has[velocity](e) {
		t.Errorf("entity should carry velocity")
	}
	if Has[label](e) {
		t.Errorf("entity should not carry label")
	}
}

func TestUniverseAddTransitionsArchetype(t *testing.T) {
	u := NewUniverse()
	e, err := u.Create(NewComponentSet())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Add[position](e, position{X: 1, Y: 1}); err != nil {
		t.Fatalf("Add position: %v", err)
	}
	if !Has[position](e) {
		t.Fatalf("entity should carry position after Add")
	}

	if err := Add[position](e, position{X: 9, Y: 9}); err != nil {
		t.Fatalf("Add position again: %v", err)
	}
	pos, err := Get[position](e)
	if err != nil {
		t.Fatalf("Get position: %v", err)
	}
	if pos.X != 1 || pos.Y != 1 {
		t.Errorf("duplicate Add should discard the new value and keep the old, got %+v", pos)
	}
}

func TestUniverseRemoveTransitionsArchetype(t *testing.T) {
	u := NewUniverse()
	set := NewComponentSet()
	SetComponent(set, position{})
	SetComponent(set, velocity{})
	e, err := u.Create(set)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Remove[velocity](e); err != nil {
		t.Fatalf("Remove velocity: %v", err)
	}
	if Has[velocity](e) {
		t.Errorf("velocity should be gone after Remove")
	}
	if !Has[position](e) {
		t.Errorf("position should survive removing velocity")
	}

	if err := Remove[velocity](e); err != nil {
		t.Errorf("removing an already-removed component should be a no-op, got %v", err)
	}
}

func TestUniverseDestroyInvalidatesHandle(t *testing.T) {
	u := NewUniverse()
	e, err := u.Create(NewComponentSet())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := u.Destroy(e); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if e.Valid() {
		t.Errorf("handle still Valid after Destroy")
	}
	if err := u.Destroy(e); err == nil {
		t.Errorf("expected error destroying an already-destroyed entity")
	}
}

func TestUniverseReusedSlotGetsFreshGeneration(t *testing.T) {
	u := NewUniverse()
	e1, _ := u.Create(NewComponentSet())
	gen1 := e1.generation
	u.Destroy(e1)

	// Force enough churn to push this slot through the reuse delay.
	var last EntityHandle
	for i := 0; i < Config.EntityReuseC+2; i++ {
		h, _ := u.Create(NewComponentSet())
		last = h
		u.Destroy(h)
	}
	_ = last

	e2, _ := u.Create(NewComponentSet())
	if e2.slot == e1.slot && e2.generation == gen1 {
		t.Errorf("reused slot did not get a fresh generation")
	}
}

func TestUniverseCopyDuplicatesComponentsIndependently(t *testing.T) {
	u := NewUniverse()
	set := NewComponentSet()
	SetComponent(set, position{X: 1, Y: 1})
	SetComponent(set, velocity{X: 2, Y: 2})
	original, err := u.Create(set)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup, err := u.Copy(original, Select[position](NewComponentSelector()))
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}

	if !Has[position](dup) {
		t.Fatalf("copy should carry position")
	}
	if Has[velocity](dup) {
		t.Errorf("copy should not carry velocity, which wasn't selected")
	}

	if err := Modify[position](dup, func(p *position) { p.X = 100 }); err != nil {
		t.Fatalf("Modify: %v", err)
	}

	orig, _ := Get[position](original)
	if orig.X != 1 {
		t.Errorf("mutating the copy affected the original: %+v", orig)
	}
}

func TestUniverseCopyFailsOnMissingSelectedType(t *testing.T) {
	u := NewUniverse()
	e, err := u.Create(NewComponentSet())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = u.Copy(e, Select[position](NewComponentSelector()))
	if err == nil {
		t.Fatalf("expected error copying a type the entity doesn't carry")
	}
	if _, ok := err.(ComponentMissingError); !ok {
		t.Errorf("got %T, expected ComponentMissingError", err)
	}
}

func TestUniverseCheckedCopySkipsMissingSelectedType(t *testing.T) {
	u := NewUniverse()
	set := NewComponentSet()
	SetComponent(set, position{X: 3, Y: 4})
	e, err := u.Create(set)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sel := Select[velocity](Select[position](NewComponentSelector()))
	dup, err := u.CheckedCopy(e, sel)
	if err != nil {
		t.Fatalf("CheckedCopy: %v", err)
	}
	if !Has[position](dup) {
		t.Errorf("copy should carry position")
	}
	if Has[velocity](dup) {
		t.Errorf("copy should not carry velocity, which the source never had")
	}
}

func TestUniverseCreateManyRunsBuildOnSampleThenOnEachCopy(t *testing.T) {
	u := NewUniverse()

	var seen []int
	handles, err := u.CreateMany(4, func(e EntityHandle, i int) error {
		seen = append(seen, i)
		return Add[label](e, label{Name: "entity"})
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if len(handles) != 4 {
		t.Fatalf("got %d handles, expected 4", len(handles))
	}
	if len(seen) != 4 {
		t.Fatalf("build ran %d times, expected 4", len(seen))
	}
	for _, h := range handles {
		if !Has[label](h) {
			t.Errorf("entity %v missing label after CreateMany", h)
		}
	}
}

func TestUniverseCreateManyCopiesSampleStateAfterFirstBuild(t *testing.T) {
	u := NewUniverse()

	handles, err := u.CreateMany(3, func(e EntityHandle, i int) error {
		if i == 0 {
			return Add[position](e, position{X: 7, Y: 7})
		}
		// not touching position here: copies should already carry it
		return nil
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	for _, h := range handles {
		pos, err := Get[position](h)
		if err != nil {
			t.Fatalf("Get position on copy: %v", err)
		}
		if pos.X != 7 || pos.Y != 7 {
			t.Errorf("copy missing sample's post-build position, got %+v", pos)
		}
	}
}

func TestUniverseQueryFiltersByComponentSet(t *testing.T) {
	u := NewUniverse()

	both := NewComponentSet()
	SetComponent(both, position{})
	SetComponent(both, velocity{})
	eBoth, _ := u.Create(both)

	onlyPos := NewComponentSet()
	SetComponent(onlyPos, position{})
	ePos, _ := u.Create(onlyPos)

	matches := u.Query(u.AllEntities(), reflect.TypeFor[position](), reflect.TypeFor[velocity]())
	if len(matches) != 1 || matches[0] != eBoth {
		t.Errorf("Query returned %v, expected only %v", matches, eBoth)
	}
	_ = ePos
}

func TestIterate2MutatesThroughBothComponents(t *testing.T) {
	u := NewUniverse()

	set := NewComponentSet()
	SetComponent(set, position{X: 0, Y: 0})
	SetComponent(set, velocity{X: 1, Y: 2})
	e, _ := u.Create(set)

	err := Iterate2(u, u.AllEntities(), func(_ EntityHandle, pos *position, vel *velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	})
	if err != nil {
		t.Fatalf("Iterate2: %v", err)
	}

	pos, _ := Get[position](e)
	if pos.X != 1 || pos.Y != 2 {
		t.Errorf("got position %+v, expected {1 2}", pos)
	}
}

func TestIterateQueuesStructuralChangesUntilDone(t *testing.T) {
	u := NewUniverse()

	set := NewComponentSet()
	SetComponent(set, position{})
	e, _ := u.Create(set)

	err := Iterate1(u, u.AllEntities(), func(h EntityHandle, _ *position) {
		if addErr := Add[velocity](h, velocity{X: 5}); addErr != nil {
			t.Errorf("Add during Iterate1: %v", addErr)
		}
		if Has[velocity](h) {
			t.Errorf("structural change should be deferred until iteration ends")
		}
	})
	if err != nil {
		t.Fatalf("Iterate1: %v", err)
	}

	if !Has[velocity](e) {
		t.Errorf("deferred Add never applied after Iterate1 returned")
	}
}
