package shipyard

import "testing"

// S4: tight pack add, then remove one half and confirm the sibling's packed prefix shrinks too.
func TestTightPackAddThenRemove(t *testing.T) {
	all := NewAllStorages()
	if err := TightPack2[int, uint32](all); err != nil {
		t.Fatalf("TightPack2: %v", err)
	}

	entities, err := TryBorrowEntitiesMut(all)
	if err != nil {
		t.Fatalf("TryBorrowEntitiesMut: %v", err)
	}
	id := (*entities.Get()).Allocate()
	entities.Release()

	if err := AddComponent2[int, uint32](all, id, 0, 1); err != nil {
		t.Fatalf("AddComponent2: %v", err)
	}

	intView, _ := TryBorrowViewMut[int](all)
	u32View, _ := TryBorrowViewMut[uint32](all)
	if intView.set.packInfo.Tight.OwnedLen != 1 {
		t.Errorf("int OwnedLen = %d, want 1", intView.set.packInfo.Tight.OwnedLen)
	}
	if u32View.set.packInfo.Tight.OwnedLen != 1 {
		t.Errorf("uint32 OwnedLen = %d, want 1", u32View.set.packInfo.Tight.OwnedLen)
	}
	intView.Release()
	u32View.Release()

	old, ok := RemoveComponent1[int](all, id)
	if !ok {
		t.Fatalf("expected RemoveComponent1 to report success")
	}
	if old.Kind != OldValueOwned || old.Value != 0 {
		t.Errorf("old = %+v, want Owned(0)", old)
	}

	u32View2, _ := TryBorrowViewMut[uint32](all)
	defer u32View2.Release()
	if u32View2.set.packInfo.Tight.OwnedLen != 0 {
		t.Errorf("uint32 OwnedLen after remove = %d, want 0", u32View2.set.packInfo.Tight.OwnedLen)
	}
	if !u32View2.Contains(id) {
		t.Errorf("removing int should not have removed uint32's own component")
	}
}

// S5: missing pack sibling — adding only through the A view of a tight A,B pack must be rejected
// and must not mutate A at all.
func TestTightPackAddMissingSiblingRejected(t *testing.T) {
	all := NewAllStorages()
	if err := TightPack2[int, uint32](all); err != nil {
		t.Fatalf("TightPack2: %v", err)
	}

	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	err := AddComponent1[int](all, id, 42)
	if err == nil {
		t.Fatalf("expected MissingPackStorageError, got nil")
	}
	if _, ok := err.(MissingPackStorageError); !ok {
		t.Errorf("err = %T(%v), want MissingPackStorageError", err, err)
	}

	intView, _ := TryBorrowView[int](all)
	defer intView.Release()
	if intView.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after a rejected add", intView.Len())
	}
}

func TestAddComponentRejectsDeadEntity(t *testing.T) {
	all := NewAllStorages()
	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	(*entities.Get()).Kill(id)
	entities.Release()

	err := AddComponent1[int](all, id, 1)
	if _, ok := err.(EntityIsNotAliveError); !ok {
		t.Errorf("err = %T(%v), want EntityIsNotAliveError", err, err)
	}
}

func TestRemoveComponent2RemovesBothIndependently(t *testing.T) {
	all := NewAllStorages()
	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	if err := AddComponent2[Position, Velocity](all, id, Position{X: 1}, Velocity{X: 2}); err != nil {
		t.Fatalf("AddComponent2: %v", err)
	}

	oldPos, oldVel := RemoveComponent2[Position, Velocity](all, id)
	if oldPos.Kind != OldValueOwned || oldPos.Value.X != 1 {
		t.Errorf("oldPos = %+v", oldPos)
	}
	if oldVel.Kind != OldValueOwned || oldVel.Value.X != 2 {
		t.Errorf("oldVel = %+v", oldVel)
	}

	posView, _ := TryBorrowView[Position](all)
	defer posView.Release()
	if posView.Contains(id) {
		t.Errorf("Position should be gone after RemoveComponent2")
	}
}
