package shipyard

import "testing"

func TestEntitiesAllocateIsAlive(t *testing.T) {
	e := NewEntities()
	id := e.Allocate()
	if !e.IsAlive(id) {
		t.Fatalf("freshly allocated id should be alive")
	}
}

func TestEntitiesKillThenStaleIDNeverSucceeds(t *testing.T) {
	e := NewEntities()
	id1 := e.Allocate()

	if !e.Kill(id1) {
		t.Fatalf("Kill should report true the first time")
	}
	if e.Kill(id1) {
		t.Errorf("Kill should report false when already dead")
	}
	if e.IsAlive(id1) {
		t.Errorf("id1 should no longer be alive after Kill")
	}

	id2 := e.Allocate()
	if id2.Index() != id1.Index() {
		t.Fatalf("expected the recycled slot to be reused, got index %d want %d", id2.Index(), id1.Index())
	}
	if id2.Generation() != id1.Generation()+1 {
		t.Errorf("Generation() = %d, want %d", id2.Generation(), id1.Generation()+1)
	}
	if e.IsAlive(id1) {
		t.Errorf("id1 must never become alive again after its slot is recycled")
	}
	if !e.IsAlive(id2) {
		t.Errorf("id2 should be alive")
	}
}

func TestEntitiesFreeListRecyclesBeforeGrowing(t *testing.T) {
	e := NewEntities()
	a := e.Allocate()
	b := e.Allocate()
	e.Kill(a)
	e.Kill(b)

	lenBefore := e.Len()
	c := e.Allocate()
	d := e.Allocate()
	if e.Len() != lenBefore {
		t.Errorf("Len() grew from %d to %d; recycling should not extend the slot table", lenBefore, e.Len())
	}
	if c.Index() == d.Index() {
		t.Errorf("two allocations from the free-list must not return the same index")
	}
}

func TestEntitiesIsAliveOnNeverAllocatedIndex(t *testing.T) {
	e := NewEntities()
	bogus := newEntityID(999, 0)
	if e.IsAlive(bogus) {
		t.Errorf("IsAlive should be false for an index that was never allocated")
	}
}
