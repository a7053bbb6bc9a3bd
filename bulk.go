package shipyard

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// bulkTarget is the type-erased surface a ViewMut[T] exposes to the bulk add/remove engine so it
// can operate over a heterogeneous tuple of targets without carrying each one's T as a type
// parameter. It mirrors the minimal vtable shape described in SPEC_FULL.md's heterogeneous
// registry design note, specialized to what packing needs: identity, pack metadata, membership,
// and positional repositioning.
type bulkTarget interface {
	storageID() StorageID
	packInfoPtr() *PackInfo
	containsEntity(id EntityID) bool
	packEntity(id EntityID)
	unpackEntity(id EntityID)
}

type addTarget interface {
	bulkTarget
	insertValue(value any, id EntityID) any
}

type removeTarget interface {
	bulkTarget
	removeErased(id EntityID) (any, bool)
}

// addComponents is the arity-independent engine behind AddComponent1..4 (§4.4). targets are the
// storages receiving a new value this call; additional are storages surfaced purely so their
// current membership can be probed for pack-qualification, without anything being inserted into
// them. Per the contract, a pack that requires a sibling absent from both targets and additional
// rejects the whole call before any write happens.
func addComponents(entities *Entities, id EntityID, targets []addTarget, values []any, additional []bulkTarget) error {
	if !entities.IsAlive(id) {
		return EntityIsNotAliveError{}
	}

	declaredTypes := make([]StorageID, len(targets))
	for i, t := range targets {
		declaredTypes[i] = t.storageID()
	}
	additionalTypes := make([]StorageID, len(additional))
	for i, a := range additional {
		additionalTypes[i] = a.storageID()
	}

	for _, t := range targets {
		pi := t.packInfoPtr()
		if !pi.hasAllStorages(declaredTypes, additionalTypes) {
			return MissingPackStorageError{TypeName: firstMissingTypeName(pi, declaredTypes, additionalTypes)}
		}
	}

	present := append([]StorageID(nil), declaredTypes...)
	for _, a := range additional {
		if a.containsEntity(id) {
			present = append(present, a.storageID())
		}
	}
	present = sortedStorageIDs(present)

	byID := make(map[StorageID]bulkTarget, len(targets)+len(additional))
	for _, t := range targets {
		byID[t.storageID()] = t
	}
	for _, a := range additional {
		byID[a.storageID()] = a
	}

	shouldPack := map[StorageID]bool{}
	for _, t := range targets {
		pi := t.packInfoPtr()
		var types []StorageID
		var ok bool
		switch pi.Kind {
		case TightPackKind:
			types, ok = pi.Tight.isPackable(present)
		case LoosePackKind:
			types, ok = pi.Loose.isPackable(present)
		}
		if ok {
			for _, ty := range types {
				shouldPack[ty] = true
			}
		}
	}

	for i, t := range targets {
		t.insertValue(values[i], id)
	}

	for sid := range shouldPack {
		if bt, ok := byID[sid]; ok {
			bt.packEntity(id)
			Config.firePack(sid, id, true)
		}
	}
	return nil
}

func firstMissingTypeName(pi *PackInfo, declared, additional []StorageID) string {
	for _, id := range pi.requiredTypes() {
		if !(containsID(declared, id) || containsID(additional, id)) {
			return id.TypeName()
		}
	}
	return "<unknown>"
}

// removeComponents is the arity-independent engine behind RemoveComponent1..4 (§4.4, symmetric
// half). Every target whose pack is positional gets every pack-required sibling storage unpacked
// first (siblings that are themselves targets are unpacked through their own held view; siblings
// that aren't targets are looked up in the registry and exclusively borrowed just long enough to
// unpack them; a sibling that can't be borrowed is a programming error and panics), then every
// target's component is actually removed.
func removeComponents(a *AllStorages, id EntityID, targets []removeTarget) []any {
	targetIDs := make(map[StorageID]bool, len(targets))
	for _, t := range targets {
		targetIDs[t.storageID()] = true
	}

	siblingIDs := map[StorageID]bool{}
	for _, t := range targets {
		pi := t.packInfoPtr()
		if !pi.isPacked() {
			continue
		}
		t.unpackEntity(id)
		Config.firePack(t.storageID(), id, false)
		for _, sid := range pi.requiredTypes() {
			if !targetIDs[sid] {
				siblingIDs[sid] = true
			}
		}
	}

	for sid := range siblingIDs {
		if storage, ok := a.lookupStorage(sid); ok {
			if err := storage.unpack(nil, id); err != nil {
				panic(bark.AddTrace(fmt.Errorf("shipyard: unpack repair on storage %s: %w", a.nameOf(sid), err)))
			}
			Config.firePack(sid, id, false)
		}
	}

	results := make([]any, len(targets))
	for i, t := range targets {
		value, ok := t.removeErased(id)
		if ok {
			results[i] = value
		}
	}
	return results
}

// AddComponent1 adds a to id's storage alone. If that storage's pack requires siblings, they must
// be surfaced through AddComponent2..4 instead, or the call fails with MissingPackStorageError.
func AddComponent1[A any](all *AllStorages, id EntityID, a A) error {
	entitiesRef, err := TryBorrowEntities(all)
	if err != nil {
		return err
	}
	defer entitiesRef.Release()

	va, err := TryBorrowViewMut[A](all)
	if err != nil {
		return err
	}
	defer va.Release()

	return addComponents(*entitiesRef.Get(), id, []addTarget{va}, []any{a}, nil)
}

// AddComponent2 adds a and b to id, surfacing both storages so a pack declared across A and B
// sees the entity qualify in the same call.
func AddComponent2[A, B any](all *AllStorages, id EntityID, a A, b B) error {
	entitiesRef, err := TryBorrowEntities(all)
	if err != nil {
		return err
	}
	defer entitiesRef.Release()

	va, err := TryBorrowViewMut[A](all)
	if err != nil {
		return err
	}
	defer va.Release()
	vb, err := TryBorrowViewMut[B](all)
	if err != nil {
		return err
	}
	defer vb.Release()

	return addComponents(*entitiesRef.Get(), id, []addTarget{va, vb}, []any{a, b}, nil)
}

// AddComponent3 adds a, b and c to id, surfacing all three storages.
func AddComponent3[A, B, C any](all *AllStorages, id EntityID, a A, b B, c C) error {
	entitiesRef, err := TryBorrowEntities(all)
	if err != nil {
		return err
	}
	defer entitiesRef.Release()

	va, err := TryBorrowViewMut[A](all)
	if err != nil {
		return err
	}
	defer va.Release()
	vb, err := TryBorrowViewMut[B](all)
	if err != nil {
		return err
	}
	defer vb.Release()
	vc, err := TryBorrowViewMut[C](all)
	if err != nil {
		return err
	}
	defer vc.Release()

	return addComponents(*entitiesRef.Get(), id, []addTarget{va, vb, vc}, []any{a, b, c}, nil)
}

// AddComponent4 adds a, b, c and d to id, surfacing all four storages.
func AddComponent4[A, B, C, D any](all *AllStorages, id EntityID, a A, b B, c C, d D) error {
	entitiesRef, err := TryBorrowEntities(all)
	if err != nil {
		return err
	}
	defer entitiesRef.Release()

	va, err := TryBorrowViewMut[A](all)
	if err != nil {
		return err
	}
	defer va.Release()
	vb, err := TryBorrowViewMut[B](all)
	if err != nil {
		return err
	}
	defer vb.Release()
	vc, err := TryBorrowViewMut[C](all)
	if err != nil {
		return err
	}
	defer vc.Release()
	vd, err := TryBorrowViewMut[D](all)
	if err != nil {
		return err
	}
	defer vd.Release()

	return addComponents(*entitiesRef.Get(), id, []addTarget{va, vb, vc, vd}, []any{a, b, c, d}, nil)
}

// RemoveComponent1 removes A's component from id, repairing any pack A participates in by
// unpacking every sibling storage the pack names, even ones this call never touches otherwise.
func RemoveComponent1[A any](all *AllStorages, id EntityID) (OldComponent[A], bool) {
	va, err := TryBorrowViewMut[A](all)
	if err != nil {
		return OldComponent[A]{}, false
	}
	defer va.Release()

	results := removeComponents(all, id, []removeTarget{va})
	old, ok := results[0].(OldComponent[A])
	return old, ok
}

// RemoveComponent2 removes A's and B's components from id in one pack-repairing call.
func RemoveComponent2[A, B any](all *AllStorages, id EntityID) (OldComponent[A], OldComponent[B]) {
	va, errA := TryBorrowViewMut[A](all)
	if errA == nil {
		defer va.Release()
	}
	vb, errB := TryBorrowViewMut[B](all)
	if errB == nil {
		defer vb.Release()
	}
	if errA != nil || errB != nil {
		return OldComponent[A]{}, OldComponent[B]{}
	}

	results := removeComponents(all, id, []removeTarget{va, vb})
	oldA, _ := results[0].(OldComponent[A])
	oldB, _ := results[1].(OldComponent[B])
	return oldA, oldB
}

// RemoveComponent3 removes A's, B's and C's components from id in one pack-repairing call.
func RemoveComponent3[A, B, C any](all *AllStorages, id EntityID) (OldComponent[A], OldComponent[B], OldComponent[C]) {
	va, errA := TryBorrowViewMut[A](all)
	if errA == nil {
		defer va.Release()
	}
	vb, errB := TryBorrowViewMut[B](all)
	if errB == nil {
		defer vb.Release()
	}
	vc, errC := TryBorrowViewMut[C](all)
	if errC == nil {
		defer vc.Release()
	}
	if errA != nil || errB != nil || errC != nil {
		return OldComponent[A]{}, OldComponent[B]{}, OldComponent[C]{}
	}

	results := removeComponents(all, id, []removeTarget{va, vb, vc})
	oldA, _ := results[0].(OldComponent[A])
	oldB, _ := results[1].(OldComponent[B])
	oldC, _ := results[2].(OldComponent[C])
	return oldA, oldB, oldC
}

// RemoveComponent4 removes A's, B's, C's and D's components from id in one pack-repairing call.
func RemoveComponent4[A, B, C, D any](all *AllStorages, id EntityID) (OldComponent[A], OldComponent[B], OldComponent[C], OldComponent[D]) {
	va, errA := TryBorrowViewMut[A](all)
	if errA == nil {
		defer va.Release()
	}
	vb, errB := TryBorrowViewMut[B](all)
	if errB == nil {
		defer vb.Release()
	}
	vc, errC := TryBorrowViewMut[C](all)
	if errC == nil {
		defer vc.Release()
	}
	vd, errD := TryBorrowViewMut[D](all)
	if errD == nil {
		defer vd.Release()
	}
	if errA != nil || errB != nil || errC != nil || errD != nil {
		return OldComponent[A]{}, OldComponent[B]{}, OldComponent[C]{}, OldComponent[D]{}
	}

	results := removeComponents(all, id, []removeTarget{va, vb, vc, vd})
	oldA, _ := results[0].(OldComponent[A])
	oldB, _ := results[1].(OldComponent[B])
	oldC, _ := results[2].(OldComponent[C])
	oldD, _ := results[3].(OldComponent[D])
	return oldA, oldB, oldC, oldD
}
