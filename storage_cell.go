package shipyard

// Storage is one entry in AllStorages' registry: a borrow-checked cell around a type-erased
// component storage. AllStorages looks one up by StorageID and hands callers back a typed view
// once it's downcast the erased value inside.
type Storage struct {
	cell *AtomicRefCell[erasedStorage]
}

func newStorage(s erasedStorage, affinity any, sync bool) *Storage {
	return &Storage{cell: NewAtomicRefCell[erasedStorage](s, affinity, sync)}
}

func (s *Storage) tryBorrow(caller any) (*Ref[erasedStorage], error) {
	return s.cell.TryBorrow(caller)
}

func (s *Storage) tryBorrowMut(caller any) (*RefMut[erasedStorage], error) {
	return s.cell.TryBorrowMut(caller)
}

// delete removes id's component from this storage under its own exclusive borrow, recording the
// ids of the pack's other storages into storageToUnpack if this storage was positionally packed
// and actually held the component (so the caller can repair those sibling storages afterward).
func (s *Storage) delete(caller any, id EntityID, storageToUnpack *[]StorageID) error {
	ref, err := s.cell.TryBorrowMut(caller)
	if err != nil {
		return err
	}
	defer ref.Release()
	(*ref.Get()).delete(id, storageToUnpack)
	return nil
}

func (s *Storage) clear(caller any) error {
	ref, err := s.cell.TryBorrowMut(caller)
	if err != nil {
		return err
	}
	defer ref.Release()
	(*ref.Get()).clear()
	return nil
}

func (s *Storage) unpack(caller any, id EntityID) error {
	ref, err := s.cell.TryBorrowMut(caller)
	if err != nil {
		return err
	}
	defer ref.Release()
	(*ref.Get()).unpack(id)
	return nil
}
