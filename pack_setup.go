package shipyard

import "sort"

// sortedStorageIDs returns a sorted copy of ids, per storageIDLess.
func sortedStorageIDs(ids []StorageID) []StorageID {
	out := append([]StorageID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return storageIDLess(out[i], out[j]) })
	return out
}

// setTightPack declares a tight pack across every storage named by ids: each storage's PackInfo
// is overwritten to TightPackKind with Types set to the sorted id list and OwnedLen reset to zero.
// It is the caller's responsibility to declare packs before entities are added, since changing an
// already-populated storage's pack kind does not retroactively move existing entries into a
// packed prefix.
func setTightPack(a *AllStorages, ids ...StorageID) error {
	sorted := sortedStorageIDs(ids)
	for _, id := range ids {
		storage, ok := a.lookupStorage(id)
		if !ok {
			return MissingPackStorageError{TypeName: id.TypeName()}
		}
		ref, err := storage.tryBorrowMut(nil)
		if err != nil {
			return StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
		}
		(*ref.Get()).setPackInfo(PackInfo{Kind: TightPackKind, Tight: TightPack{Types: sorted}})
		ref.Release()
	}
	return nil
}

// setLoosePack declares a loose pack: tightIDs mirror each other's packed-prefix ordering,
// looseIDs merely assert membership.
func setLoosePack(a *AllStorages, tightIDs, looseIDs []StorageID) error {
	sortedTight := sortedStorageIDs(tightIDs)
	sortedLoose := sortedStorageIDs(looseIDs)
	for _, id := range tightIDs {
		storage, ok := a.lookupStorage(id)
		if !ok {
			return MissingPackStorageError{TypeName: id.TypeName()}
		}
		ref, err := storage.tryBorrowMut(nil)
		if err != nil {
			return StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
		}
		(*ref.Get()).setPackInfo(PackInfo{Kind: LoosePackKind, Loose: LoosePack{TightTypes: sortedTight, LooseTypes: sortedLoose}})
		ref.Release()
	}
	return nil
}

// TightPack2 declares a tight pack between A and B's storages, registering either one that
// doesn't already exist.
func TightPack2[A, B any](a *AllStorages) error {
	Register[A](a)
	Register[B](a)
	return setTightPack(a, storageIDFor[A](), storageIDFor[B]())
}

// TightPack3 declares a tight pack among A, B and C's storages.
func TightPack3[A, B, C any](a *AllStorages) error {
	Register[A](a)
	Register[B](a)
	Register[C](a)
	return setTightPack(a, storageIDFor[A](), storageIDFor[B](), storageIDFor[C]())
}

// LoosePack2 declares a loose pack with a single tight participant A and a single loose
// participant B: A's dense prefix mirrors the packed entities; B only asserts membership.
func LoosePack2[A, B any](a *AllStorages) error {
	Register[A](a)
	Register[B](a)
	return setLoosePack(a, []StorageID{storageIDFor[A]()}, []StorageID{storageIDFor[B]()})
}

// AddObserver registers observerID as an observer of T's storage: T's pack checks (hasAllStorages)
// then also require observerID to be surfaced, without T formally packing with it.
func AddObserver[T any](a *AllStorages, observerID StorageID) error {
	id := storageIDFor[T]()
	storage, ok := a.lookupStorage(id)
	if !ok {
		return MissingPackStorageError{TypeName: id.TypeName()}
	}
	ref, err := storage.tryBorrowMut(nil)
	if err != nil {
		return StorageBorrowError{TypeName: a.nameOf(id), Kind: classifyBorrowErr(err)}
	}
	defer ref.Release()
	set, ok := downcastStorage[T](*ref.Get())
	if !ok {
		return NonUniqueError{TypeName: a.nameOf(id)}
	}
	set.packInfo.ObserverTypes = append(set.packInfo.ObserverTypes, observerID)
	return nil
}
