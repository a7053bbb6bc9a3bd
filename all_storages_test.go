package shipyard

import "testing"

// S6: delete-any with pack repair across two tight-packed storages.
func TestAllStoragesDeleteRepairsBothPacks(t *testing.T) {
	all := NewAllStorages()
	if err := TightPack2[Position, Velocity](all); err != nil {
		t.Fatalf("TightPack2: %v", err)
	}

	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	if err := AddComponent2[Position, Velocity](all, id, Position{X: 1}, Velocity{X: 2}); err != nil {
		t.Fatalf("AddComponent2: %v", err)
	}

	if err := all.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	posView, _ := TryBorrowView[Position](all)
	velView, _ := TryBorrowView[Velocity](all)
	defer posView.Release()
	defer velView.Release()

	if posView.Contains(id) || velView.Contains(id) {
		t.Errorf("entity should be gone from both storages after Delete")
	}
	if posView.set.packInfo.Tight.OwnedLen != 0 {
		t.Errorf("Position OwnedLen = %d, want 0", posView.set.packInfo.Tight.OwnedLen)
	}
	if velView.set.packInfo.Tight.OwnedLen != 0 {
		t.Errorf("Velocity OwnedLen = %d, want 0", velView.set.packInfo.Tight.OwnedLen)
	}
}

func TestAllStoragesDeleteOnDeadEntity(t *testing.T) {
	all := NewAllStorages()
	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	if err := all.Delete(id); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := all.Delete(id); err == nil {
		t.Errorf("second Delete on an already-dead entity should fail")
	}
}

func TestAllStoragesClearResetsEverything(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)

	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	view, _ := TryBorrowViewMut[Position](all)
	view.Insert(Position{X: 9}, id)
	view.Release()

	all.Clear()

	view2, _ := TryBorrowView[Position](all)
	defer view2.Release()
	if view2.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", view2.Len())
	}

	entities2, _ := TryBorrowEntities(all)
	defer entities2.Release()
	if (*entities2.Get()).IsAlive(id) {
		t.Errorf("id should not be alive after Clear")
	}
}

func TestAllStoragesRegisterIsIdempotent(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)
	Register[Position](all)

	view, _ := TryBorrowViewMut[Position](all)
	defer view.Release()
	id := newEntityID(0, 0)
	view.Insert(Position{X: 1}, id)
	if view.Len() != 1 {
		t.Errorf("Len() = %d, want 1", view.Len())
	}
}

func TestUniqueStorageGetAndSet(t *testing.T) {
	all := NewAllStorages()
	RegisterUnique[int](all, 7)

	view, err := TryBorrowUnique[int](all)
	if err != nil {
		t.Fatalf("TryBorrowUnique: %v", err)
	}
	if *view.Get() != 7 {
		t.Errorf("Get() = %d, want 7", *view.Get())
	}
	view.Release()

	mutView, err := TryBorrowUniqueMut[int](all)
	if err != nil {
		t.Fatalf("TryBorrowUniqueMut: %v", err)
	}
	mutView.Set(42)
	mutView.Release()

	view2, _ := TryBorrowUnique[int](all)
	defer view2.Release()
	if *view2.Get() != 42 {
		t.Errorf("Get() after Set = %d, want 42", *view2.Get())
	}
}

func TestUniqueViewOverComponentStorageFails(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)

	if _, err := TryBorrowUnique[Position](all); err == nil {
		t.Errorf("expected an error asking for a UniqueView over a plain component storage")
	}
}

func TestViewBorrowConflict(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)

	exclusive, err := TryBorrowViewMut[Position](all)
	if err != nil {
		t.Fatalf("TryBorrowViewMut: %v", err)
	}
	defer exclusive.Release()

	if _, err := TryBorrowView[Position](all); err == nil {
		t.Errorf("expected a shared borrow to fail while an exclusive borrow is held")
	}
	if _, err := TryBorrowViewMut[Position](all); err == nil {
		t.Errorf("expected a second exclusive borrow to fail while one is held")
	}
}

func TestViewMultipleSharedBorrowsAllowed(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)

	v1, err := TryBorrowView[Position](all)
	if err != nil {
		t.Fatalf("first TryBorrowView: %v", err)
	}
	defer v1.Release()

	v2, err := TryBorrowView[Position](all)
	if err != nil {
		t.Errorf("second shared TryBorrowView should succeed, got %v", err)
	} else {
		v2.Release()
	}
}

func TestBorrowReleaseFreesForNextExclusiveBorrow(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)

	v1, _ := TryBorrowViewMut[Position](all)
	v1.Release()

	v2, err := TryBorrowViewMut[Position](all)
	if err != nil {
		t.Fatalf("TryBorrowViewMut after release: %v", err)
	}
	v2.Release()
}

func TestCombineBorrowInfoReportsEachViewsAccessMode(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)
	Register[Velocity](all)

	shared, _ := TryBorrowView[Position](all)
	defer shared.Release()
	exclusive, _ := TryBorrowViewMut[Velocity](all)
	defer exclusive.Release()

	requests := CombineBorrowInfo(shared, exclusive)
	if len(requests) != 2 {
		t.Fatalf("len(requests) = %d, want 2", len(requests))
	}
	if requests[0].ID != storageIDFor[Position]() || requests[0].Mode != AccessShared {
		t.Errorf("requests[0] = %+v, want {Position, AccessShared}", requests[0])
	}
	if requests[1].ID != storageIDFor[Velocity]() || requests[1].Mode != AccessExclusive {
		t.Errorf("requests[1] = %+v, want {Velocity, AccessExclusive}", requests[1])
	}
}

func TestLoosePack2TightParticipantRepositionsWithoutMovingLoose(t *testing.T) {
	all := NewAllStorages()
	if err := LoosePack2[Position, Health](all); err != nil {
		t.Fatalf("LoosePack2: %v", err)
	}

	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	if err := AddComponent2[Position, Health](all, id, Position{X: 1}, Health{HP: 10}); err != nil {
		t.Fatalf("AddComponent2: %v", err)
	}

	posView, _ := TryBorrowViewMut[Position](all)
	defer posView.Release()
	if posView.set.packInfo.Loose.OwnedLen != 1 {
		t.Errorf("Position OwnedLen = %d, want 1", posView.set.packInfo.Loose.OwnedLen)
	}
	if !posView.Contains(id) {
		t.Errorf("Position should contain id")
	}

	healthView, _ := TryBorrowView[Health](all)
	defer healthView.Release()
	if !healthView.Contains(id) {
		t.Errorf("Health (loose participant) should still contain id")
	}
}

func TestAddObserverRequiresObserverPresence(t *testing.T) {
	all := NewAllStorages()
	Register[Position](all)
	Register[Health](all)

	if err := AddObserver[Position](all, storageIDFor[Health]()); err != nil {
		t.Fatalf("AddObserver: %v", err)
	}

	entities, _ := TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	err := AddComponent1[Position](all, id, Position{X: 1})
	if _, ok := err.(MissingPackStorageError); !ok {
		t.Errorf("err = %T(%v), want MissingPackStorageError since Health wasn't surfaced", err, err)
	}

	if err := AddComponent2[Position, Health](all, id, Position{X: 1}, Health{HP: 5}); err != nil {
		t.Errorf("AddComponent2 surfacing the observer should succeed, got %v", err)
	}
}
