package shipyard

// erasedStorage is the type-erased surface every SparseSet[T] satisfies, letting AllStorages hold
// heterogeneous component storages in one registry and operate on "whichever one this id touches"
// without knowing T. Go has no dyn-Any trait object, so this is the idiomatic substitute: a small
// interface plus a type assertion back to *SparseSet[T] wherever the concrete type is needed.
type erasedStorage interface {
	delete(id EntityID, storageToUnpack *[]StorageID)
	clear()
	unpack(id EntityID)
	setPackInfo(pi PackInfo)
}

// delete takes id out of this storage and, if it belongs to a pack, unpacks it from this
// storage's own prefix immediately (so OwnedLen never drifts stale) and records every *sibling*
// storage the pack names so the caller's second pass can repair them too. Unpack must run before
// ActualRemove: once the component is gone, Contains(id) is false and Unpack has nothing left to
// find.
func (s *SparseSet[T]) delete(id EntityID, storageToUnpack *[]StorageID) {
	if !s.Contains(id) {
		return
	}
	if s.packInfo.isPacked() {
		s.Unpack(id)
		selfID := storageIDFor[T]()
		for _, sid := range s.packInfo.requiredTypes() {
			if sid != selfID {
				*storageToUnpack = append(*storageToUnpack, sid)
			}
		}
	}
	s.ActualRemove(id)
}

func (s *SparseSet[T]) clear() {
	for i := range s.sparse {
		s.sparse[i] = absentSlot
	}
	s.dense = s.dense[:0]
	s.data = s.data[:0]
	if s.log != nil {
		s.log.insertedCount = 0
		s.log.modifiedCount = 0
		s.log.removed = nil
	}
	s.setOwnedLen(0)
}

func (s *SparseSet[T]) unpack(id EntityID) {
	s.Unpack(id)
}

func (s *SparseSet[T]) setPackInfo(pi PackInfo) {
	s.packInfo = pi
}

// downcastStorage type-asserts an erasedStorage back to *SparseSet[T], the only fallible step in
// an otherwise generic code path (AllStorages guarantees each StorageID only ever maps to one
// concrete type, so this only fails on a genuine caller bug).
func downcastStorage[T any](s erasedStorage) (*SparseSet[T], bool) {
	set, ok := s.(*SparseSet[T])
	return set, ok
}
