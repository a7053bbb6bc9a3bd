package shipyard

import (
	"fmt"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// sweepLockBit is the bit this registry marks in locks while a Delete or Clear sweep is in
// flight, mirroring the teacher's own storage.locks/AddLock/RemoveLock pattern (storage.go):
// registration is refused mid-sweep so a reentrant Register can't observe a storage the sweep
// hasn't reached yet as if it always existed.
const sweepLockBit = 0

// AllStorages is the registry of every component storage, unique resource, and the entity table
// for one world. Registration and lookup are guarded by an internal mutex; the actual component
// data inside each registered storage is independently borrow-arbitrated through its own
// AtomicRefCell, so two goroutines touching two different storages never contend on this mutex
// for longer than a map lookup.
type AllStorages struct {
	mu       sync.RWMutex
	entities *AtomicRefCell[*Entities]
	storages map[StorageID]*Storage
	uniques  map[StorageID]*AtomicRefCell[any]
	names    *nameCache
	bits     map[StorageID]uint16
	nextBit  uint16
	locks    mask.Mask256
}

// NewAllStorages returns an empty registry with its entity table already created.
func NewAllStorages() *AllStorages {
	return &AllStorages{
		entities: NewAtomicRefCell[*Entities](NewEntities(), nil, true),
		storages: make(map[StorageID]*Storage),
		uniques:  make(map[StorageID]*AtomicRefCell[any]),
		names:    newNameCache(),
	}
}

func (a *AllStorages) nameOf(id StorageID) string {
	return a.names.nameFor(id, id.TypeName)
}

// Locked reports whether a Delete or Clear sweep currently holds the registry lock.
func (a *AllStorages) Locked() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.locks.IsEmpty()
}

func (a *AllStorages) lockSweep() {
	a.mu.Lock()
	a.locks.Mark(sweepLockBit)
	a.mu.Unlock()
}

func (a *AllStorages) unlockSweep() {
	a.mu.Lock()
	a.locks.Unmark(sweepLockBit)
	a.mu.Unlock()
}

// bitFor lazily assigns id a stable small index. No other function in this package calls it.
// Registries with more than 256 distinct storages get no index for the overflow (ok=false);
// every other operation in this package works regardless.
func (a *AllStorages) bitFor(id StorageID) (uint16, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if bit, ok := a.bits[id]; ok {
		return bit, true
	}
	if a.bits == nil {
		a.bits = make(map[StorageID]uint16)
	}
	if a.nextBit >= 256 {
		return 0, false
	}
	bit := a.nextBit
	a.nextBit++
	a.bits[id] = bit
	return bit, true
}

// Register creates, if it doesn't already exist, the component storage for T. It is a no-op
// while a Delete or Clear sweep holds the registry lock.
func Register[T any](a *AllStorages) {
	if a.Locked() {
		return
	}
	id := storageIDFor[T]()
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.storages[id]; ok {
		return
	}
	a.storages[id] = newStorage(erasedStorage(NewSparseSet[T]()), nil, true)
	a.bitForLocked(id)
	Config.fireRegister(id)
}

func (a *AllStorages) bitForLocked(id StorageID) {
	if a.bits == nil {
		a.bits = make(map[StorageID]uint16)
	}
	if _, ok := a.bits[id]; ok || a.nextBit >= 256 {
		return
	}
	a.bits[id] = a.nextBit
	a.nextBit++
}

// RegisterUnique creates the unique storage for T, eagerly holding value. Registering the same
// type twice replaces the previous value. The cell holds a *T rather than a bare T so that
// UniqueViewMut can hand out a pointer that actually writes back into the registry.
func RegisterUnique[T any](a *AllStorages, value T) {
	id := storageIDFor[T]()
	boxed := new(T)
	*boxed = value
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uniques[id] = NewAtomicRefCell[any](any(boxed), nil, true)
	a.bitForLocked(id)
	Config.fireRegister(id)
}

func (a *AllStorages) lookupStorage(id StorageID) (*Storage, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.storages[id]
	return s, ok
}

func (a *AllStorages) lookupUnique(id StorageID) (*AtomicRefCell[any], bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	u, ok := a.uniques[id]
	return u, ok
}

// orderedStorageIDs returns every registered component storage id, sorted by storageIDLess, for
// deterministic sweeps (Delete, Clear).
func (a *AllStorages) orderedStorageIDs() []StorageID {
	a.mu.RLock()
	ids := make([]StorageID, 0, len(a.storages))
	for id := range a.storages {
		ids = append(ids, id)
	}
	a.mu.RUnlock()

	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && storageIDLess(ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// Delete removes id from the entity table and from every storage that carries a component for it,
// per §4.5: a first sweep actual-removes and collects which storages need pack repair, then a
// second sweep calls Unpack on exactly those.
func (a *AllStorages) Delete(id EntityID) error {
	a.lockSweep()
	defer a.unlockSweep()

	entitiesRef, err := a.entities.TryBorrowMut(nil)
	if err != nil {
		return err
	}
	alive := (*entitiesRef.Get()).IsAlive(id)
	if alive {
		(*entitiesRef.Get()).Kill(id)
	}
	entitiesRef.Release()
	if !alive {
		return EntityIsNotAliveError{}
	}

	var storageToUnpack []StorageID
	for _, sid := range a.orderedStorageIDs() {
		storage, ok := a.lookupStorage(sid)
		if !ok {
			continue
		}
		if err := storage.delete(nil, id, &storageToUnpack); err != nil {
			panic(bark.AddTrace(fmt.Errorf("shipyard: delete on storage %s: %w", a.nameOf(sid), err)))
		}
	}

	for _, sid := range storageToUnpack {
		storage, ok := a.lookupStorage(sid)
		if !ok {
			continue
		}
		if err := storage.unpack(nil, id); err != nil {
			panic(bark.AddTrace(fmt.Errorf("shipyard: unpack repair on storage %s: %w", a.nameOf(sid), err)))
		}
	}

	return nil
}

// Clear empties every registered storage and the entity table, without changing what's registered.
func (a *AllStorages) Clear() {
	a.lockSweep()
	defer a.unlockSweep()

	for _, sid := range a.orderedStorageIDs() {
		storage, ok := a.lookupStorage(sid)
		if !ok {
			continue
		}
		if err := storage.clear(nil); err != nil {
			panic(bark.AddTrace(fmt.Errorf("shipyard: clear storage %s: %w", a.nameOf(sid), err)))
		}
	}

	entitiesRef, err := a.entities.TryBorrowMut(nil)
	if err != nil {
		panic(bark.AddTrace(fmt.Errorf("shipyard: clear entities: %w", err)))
	}
	*entitiesRef.Get() = NewEntities()
	entitiesRef.Release()
}
