package shipyard

// AccessMode describes whether a view needs shared or exclusive access to its storage, for the
// borrow-info contract an external scheduler uses to compute conflict-free parallel batches.
type AccessMode int

const (
	// AccessShared means the view only reads its storage.
	AccessShared AccessMode = iota
	// AccessExclusive means the view may mutate its storage.
	AccessExclusive
)

// BorrowInfoProvider is satisfied by every view type; CombineBorrowInfo concatenates the reports
// of a tuple of views into the set a scheduler needs to check for conflicts before running two
// systems in parallel.
type BorrowInfoProvider interface {
	BorrowInfo() (StorageID, AccessMode)
}

// BorrowRequest is one (StorageID, AccessMode) pair reported by a view.
type BorrowRequest struct {
	ID   StorageID
	Mode AccessMode
}

// CombineBorrowInfo concatenates the borrow requests of every view passed in, in order. It
// performs no dedup or conflict detection itself — it's the raw material an external scheduler
// reduces down to a conflict-free batch.
func CombineBorrowInfo(views ...BorrowInfoProvider) []BorrowRequest {
	out := make([]BorrowRequest, len(views))
	for i, v := range views {
		id, mode := v.BorrowInfo()
		out[i] = BorrowRequest{ID: id, Mode: mode}
	}
	return out
}

// View is a shared, read-only handle over one component storage.
type View[T any] struct {
	set *SparseSet[T]
	ref *Ref[erasedStorage]
	id  StorageID
}

// BorrowInfo reports the storage and access mode this view requires.
func (v View[T]) BorrowInfo() (StorageID, AccessMode) { return v.id, AccessShared }

// Get returns a read-only pointer to id's component.
func (v View[T]) Get(id EntityID) (*T, bool) { return v.set.Get(id) }

// Contains reports whether id carries this component.
func (v View[T]) Contains(id EntityID) bool { return v.set.Contains(id) }

// Len returns the number of entities carrying this component.
func (v View[T]) Len() int { return v.set.Len() }

// All iterates every entity/component pair in storage order.
func (v View[T]) All() func(func(EntityID, *T) bool) { return v.set.All() }

// Release ends the underlying borrow. Callers must call it exactly once when done with the view.
func (v View[T]) Release() { v.ref.Release() }

// ViewMut is an exclusive, read-write handle over one component storage.
type ViewMut[T any] struct {
	set *SparseSet[T]
	ref *RefMut[erasedStorage]
	id  StorageID
}

// BorrowInfo reports the storage and access mode this view requires.
func (v ViewMut[T]) BorrowInfo() (StorageID, AccessMode) { return v.id, AccessExclusive }

// Get returns a read-only pointer to id's component.
func (v ViewMut[T]) Get(id EntityID) (*T, bool) { return v.set.Get(id) }

// GetMut returns a mutable pointer to id's component, marking it modified when update-packed.
func (v ViewMut[T]) GetMut(id EntityID) (*T, bool) { return v.set.GetMut(id) }

// Contains reports whether id carries this component.
func (v ViewMut[T]) Contains(id EntityID) bool { return v.set.Contains(id) }

// Len returns the number of entities carrying this component.
func (v ViewMut[T]) Len() int { return v.set.Len() }

// All iterates every entity/component pair read-only, without marking anything modified.
func (v ViewMut[T]) All() func(func(EntityID, *T) bool) { return v.set.All() }

// AllMut iterates every entity/component pair, marking each visited entry modified when the
// storage is update-packed.
func (v ViewMut[T]) AllMut() func(func(EntityID, *T) bool) { return v.set.AllMut() }

// Insert adds or overwrites id's component through this view alone, bypassing pack repair. Use
// AddComponent1..4 instead when the storage participates in a pack with siblings not covered by
// this view.
func (v ViewMut[T]) Insert(value T, id EntityID) OldComponent[T] { return v.set.Insert(value, id) }

// Remove takes id's component out of this storage alone, bypassing pack repair. Use
// RemoveComponent1..4 when the storage participates in a pack.
func (v ViewMut[T]) Remove(id EntityID) (OldComponent[T], bool) { return v.set.ActualRemove(id) }

// TryUpdatePack switches the underlying storage into update-pack mode.
func (v ViewMut[T]) TryUpdatePack() error { return v.set.EnableUpdateTracking() }

// TryInserted returns the ids currently in the inserted region.
func (v ViewMut[T]) TryInserted() []EntityID { return v.set.Inserted() }

// TryModified returns the ids currently in the modified region.
func (v ViewMut[T]) TryModified() []EntityID { return v.set.Modified() }

// TryInsertedOrModified returns the ids in either the inserted or modified region.
func (v ViewMut[T]) TryInsertedOrModified() []EntityID { return v.set.InsertedOrModified() }

// TryClearInserted empties the inserted region.
func (v ViewMut[T]) TryClearInserted() { v.set.ClearInserted() }

// TryClearModified empties the modified region.
func (v ViewMut[T]) TryClearModified() { v.set.ClearModified() }

// TryTakeRemoved drains and returns the removal log.
func (v ViewMut[T]) TryTakeRemoved() []Removed[T] { return v.set.TakeRemoved() }

// Release ends the underlying borrow. Callers must call it exactly once when done with the view.
func (v ViewMut[T]) Release() { v.ref.Release() }

// storageID, packInfoPtr, containsEntity, packEntity, unpackEntity, insertValue and removeErased
// adapt ViewMut[T] to the type-erased bulkTarget/removeTarget surface the bulk add/remove engine
// (bulk.go) operates over, since the engine can't carry T as a type parameter across a
// heterogeneous tuple of targets.
func (v ViewMut[T]) storageID() StorageID          { return v.id }
func (v ViewMut[T]) packInfoPtr() *PackInfo        { return &v.set.packInfo }
func (v ViewMut[T]) containsEntity(id EntityID) bool { return v.set.Contains(id) }
func (v ViewMut[T]) packEntity(id EntityID)        { v.set.Pack(id) }
func (v ViewMut[T]) unpackEntity(id EntityID)      { v.set.Unpack(id) }

func (v ViewMut[T]) insertValue(value any, id EntityID) any {
	return v.set.Insert(value.(T), id)
}

func (v ViewMut[T]) removeErased(id EntityID) (any, bool) {
	return v.set.ActualRemove(id)
}

// UniqueView is a shared handle over a unique (world-global) resource.
type UniqueView[T any] struct {
	ref *Ref[any]
}

// Get returns a read-only pointer to the resource's current value.
func (v UniqueView[T]) Get() *T {
	return (*v.ref.Get()).(*T)
}

// Release ends the underlying borrow.
func (v UniqueView[T]) Release() { v.ref.Release() }

// UniqueViewMut is an exclusive handle over a unique (world-global) resource.
type UniqueViewMut[T any] struct {
	ref *RefMut[any]
}

// Get returns a mutable pointer to the resource's current value.
func (v UniqueViewMut[T]) Get() *T {
	return (*v.ref.Get()).(*T)
}

// Set replaces the resource's current value.
func (v UniqueViewMut[T]) Set(value T) { *v.Get() = value }

// Release ends the underlying borrow.
func (v UniqueViewMut[T]) Release() { v.ref.Release() }

// TryBorrowView returns a shared View over T's storage, registering it lazily if needed.
func TryBorrowView[T any](a *AllStorages) (View[T], error) {
	id := storageIDFor[T]()
	if _, ok := a.lookupUnique(id); ok {
		return View[T]{}, UniqueError{TypeName: a.nameOf(id)}
	}
	storage, ok := a.lookupStorage(id)
	if !ok {
		Register[T](a)
		storage, _ = a.lookupStorage(id)
	}
	ref, err := storage.tryBorrow(nil)
	if err != nil {
		return View[T]{}, StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
	}
	set, ok := downcastStorage[T](*ref.Get())
	if !ok {
		ref.Release()
		return View[T]{}, UniqueError{TypeName: a.nameOf(id)}
	}
	return View[T]{set: set, ref: ref, id: id}, nil
}

// TryBorrowViewMut returns an exclusive ViewMut over T's storage, registering it lazily if needed.
func TryBorrowViewMut[T any](a *AllStorages) (ViewMut[T], error) {
	id := storageIDFor[T]()
	if _, ok := a.lookupUnique(id); ok {
		return ViewMut[T]{}, UniqueError{TypeName: a.nameOf(id)}
	}
	storage, ok := a.lookupStorage(id)
	if !ok {
		Register[T](a)
		storage, _ = a.lookupStorage(id)
	}
	ref, err := storage.tryBorrowMut(nil)
	if err != nil {
		return ViewMut[T]{}, StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
	}
	set, ok := downcastStorage[T](*ref.Get())
	if !ok {
		ref.Release()
		return ViewMut[T]{}, UniqueError{TypeName: a.nameOf(id)}
	}
	return ViewMut[T]{set: set, ref: ref, id: id}, nil
}

// TryBorrowEntities returns a shared handle over the entity table.
func TryBorrowEntities(a *AllStorages) (*Ref[*Entities], error) {
	return a.entities.TryBorrow(nil)
}

// TryBorrowEntitiesMut returns an exclusive handle over the entity table.
func TryBorrowEntitiesMut(a *AllStorages) (*RefMut[*Entities], error) {
	return a.entities.TryBorrowMut(nil)
}

// TryBorrowUnique returns a shared UniqueView over T's unique resource.
func TryBorrowUnique[T any](a *AllStorages) (UniqueView[T], error) {
	id := storageIDFor[T]()
	cell, ok := a.lookupUnique(id)
	if !ok {
		return UniqueView[T]{}, NonUniqueError{TypeName: a.nameOf(id)}
	}
	ref, err := cell.TryBorrow(nil)
	if err != nil {
		return UniqueView[T]{}, StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
	}
	return UniqueView[T]{ref: ref}, nil
}

// TryBorrowUniqueMut returns an exclusive UniqueViewMut over T's unique resource.
func TryBorrowUniqueMut[T any](a *AllStorages) (UniqueViewMut[T], error) {
	id := storageIDFor[T]()
	cell, ok := a.lookupUnique(id)
	if !ok {
		return UniqueViewMut[T]{}, NonUniqueError{TypeName: a.nameOf(id)}
	}
	ref, err := cell.TryBorrowMut(nil)
	if err != nil {
		return UniqueViewMut[T]{}, StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
	}
	return UniqueViewMut[T]{ref: ref}, nil
}

func classifyBorrowErr(err error) BorrowKind {
	if be, ok := err.(BorrowError); ok {
		return be.Kind
	}
	return Exclusive
}

// MustBorrowView panics if TryBorrowView fails; sugar for callers that treat a borrow conflict as
// a programming error rather than something to recover from.
func MustBorrowView[T any](a *AllStorages) View[T] {
	v, err := TryBorrowView[T](a)
	if err != nil {
		panic(err)
	}
	return v
}

// MustBorrowViewMut panics if TryBorrowViewMut fails.
func MustBorrowViewMut[T any](a *AllStorages) ViewMut[T] {
	v, err := TryBorrowViewMut[T](a)
	if err != nil {
		panic(err)
	}
	return v
}
